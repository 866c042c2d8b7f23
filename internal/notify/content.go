// Package notify decides whether alerts go out and builds their content.
package notify

import (
	"path/filepath"
	"time"

	"github.com/trentmcnitt/cc-notifier/internal/hook"
)

const localTitle = "Claude Code 🔔"

// Content is the rendered text of one alert.
type Content struct {
	Title    string
	Subtitle string
	Message  string
}

// LocalContent builds the desktop alert text for a hook event. The
// subtitle names the working project so alerts from parallel sessions
// are tellable apart.
func LocalContent(ev *hook.Event) Content {
	return Content{
		Title:    localTitle,
		Subtitle: subtitle(ev),
		Message:  message(ev),
	}
}

// PushContent builds the push alert text. The title carries a clock
// time because push delivery can lag the event by the whole polling
// schedule.
func PushContent(ev *hook.Event, now time.Time) Content {
	return Content{
		Title:   subtitle(ev) + now.Format(" [3:04 PM]"),
		Message: message(ev),
	}
}

func subtitle(ev *hook.Event) string {
	if ev.Cwd == "" {
		return "Task Completed"
	}
	return filepath.Base(ev.Cwd)
}

func message(ev *hook.Event) string {
	if ev.HookEventName == hook.EventNotification && ev.Message != "" {
		return ev.Message
	}
	return "Completed task"
}
