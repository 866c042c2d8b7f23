// Package logging routes the standard logger to a per-user log file
// that trims itself, since hook processes are too short-lived for an
// external log rotator.
package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	logDir  = ".cc-notifier"
	logName = "cc-notifier.log"

	// Trim back to keepLines once the file passes maxLines, so
	// trimming runs on roughly every thousandth invocation rather
	// than every one.
	maxLines  = 2250
	keepLines = 1250
)

var debugEnabled bool

// Path returns the log file location, or empty when the home
// directory cannot be resolved.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, logDir, logName)
}

// Setup points the standard logger at the log file and enables debug
// output when asked. Failure leaves logging on stderr, which still
// reaches the hook caller's transcript.
func Setup(debug bool) error {
	debugEnabled = debug
	log.SetFlags(log.LstdFlags)

	path := Path()
	if path == "" {
		return errors.New("cannot resolve home directory for log file")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create log directory")
	}

	if err := trim(path); err != nil {
		// A failed trim never blocks logging itself.
		log.Printf("Failed to trim log file: %v", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "failed to open log file")
	}
	log.SetOutput(f)
	return nil
}

// Debugf logs only when debug mode is on.
func Debugf(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("DEBUG "+format, args...)
	}
}

// trim rewrites the log to its newest keepLines lines once it has
// grown past maxLines.
func trim(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) <= maxLines {
		return nil
	}

	kept := lines[len(lines)-keepLines:]
	return os.WriteFile(path, []byte(strings.Join(kept, "\n")+"\n"), 0o644)
}
