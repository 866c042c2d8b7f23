package window

import (
	"context"

	"github.com/pkg/errors"
)

// ID is an opaque identity for one window instance. It identifies the
// window itself, not the owning application, and is only ever compared
// for equality.
type ID string

// Unknown is the placeholder identity stored when the focused window
// could not be determined at session start.
const Unknown ID = "unknown"

// Concrete reports whether the ID names a real window, as opposed to
// the empty value or the Unknown placeholder.
func (id ID) Concrete() bool {
	return id != "" && id != Unknown
}

var (
	// ErrUnavailable means the window probe could not answer at all:
	// the automation binary is missing, timed out, or exited nonzero.
	ErrUnavailable = errors.New("window probe unavailable")

	// ErrNoWindow means the probe answered but no window is focused.
	ErrNoWindow = errors.New("no focused window")
)

// Info describes the focused window at probe time.
type Info struct {
	ID      ID
	AppPath string
}

// Probe answers "what window is focused right now?". Implementations
// must complete within a bounded timeout and never block indefinitely.
type Probe interface {
	// CurrentWindow returns the focused window, ErrNoWindow when the
	// desktop has no focused window, or ErrUnavailable when the probe
	// itself failed.
	CurrentWindow(ctx context.Context) (*Info, error)

	// Available checks if this probe can run on the current system.
	Available() bool
}

// SwitchedAway reports whether the user left the stored window. It is
// false only when the probe succeeded and both identities are concrete
// and equal. A failed probe or a placeholder identity counts as
// switched away, so a notification is never suppressed just because
// detection failed.
func SwitchedAway(stored, current ID, probeErr error) bool {
	if probeErr != nil {
		return true
	}
	if !stored.Concrete() || !current.Concrete() {
		return true
	}
	return stored != current
}
