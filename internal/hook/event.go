// Package hook parses the JSON event each hook invocation receives on
// stdin.
package hook

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Event names recognized in incoming hook data.
const (
	EventStop         = "Stop"
	EventNotification = "Notification"
)

// Event is one hook invocation's payload.
type Event struct {
	SessionID     string `json:"session_id"`
	Cwd           string `json:"cwd"`
	HookEventName string `json:"hook_event_name"`
	Message       string `json:"message"`
}

// Decode reads one event from r. SessionID is required; the event name
// defaults to Stop. Unknown fields are ignored.
func Decode(r io.Reader) (*Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read hook input")
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, errors.Wrap(err, "invalid JSON input from stdin")
	}

	if ev.SessionID == "" {
		return nil, errors.New("hook event missing session_id")
	}
	if ev.HookEventName == "" {
		ev.HookEventName = EventStop
	}
	return &ev, nil
}
