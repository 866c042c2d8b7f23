package notify

import (
	"fmt"
	"os/exec"

	"github.com/alessio/shellescape"
)

// ErrorAlert surfaces an internal failure as a desktop alert whose
// click action opens the log file. Best effort on a path that is
// already failing: terminal-notifier first, osascript as fallback,
// and errors from both are swallowed.
func ErrorAlert(notifierPath, logPath, message string) {
	args := []string{
		"-title", "cc-notifier error",
		"-message", message,
		"-sound", "Basso",
		"-ignoreDnD",
	}
	if logPath != "" {
		args = append(args, "-execute", shellescape.QuoteCommand([]string{"open", logPath}))
	}
	if err := startDetached(notifierPath, args...); err == nil {
		return
	}

	script := fmt.Sprintf("display notification %q with title %q", message, "cc-notifier error")
	_ = exec.Command("osascript", "-e", script).Run()
}
