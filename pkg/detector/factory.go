// Package detector derives the execution mode from the environment and
// selects the matching idle sampling integration.
package detector

import (
	"os"
	"time"

	"github.com/trentmcnitt/cc-notifier/pkg/idle"
	"github.com/trentmcnitt/cc-notifier/pkg/integrations/ioreg"
	"github.com/trentmcnitt/cc-notifier/pkg/integrations/tty"
)

// Mode is how the hook is being run: at the desktop or over SSH.
type Mode string

const (
	ModeDesktop Mode = "desktop"
	ModeRemote  Mode = "remote"
)

// DetectMode returns ModeRemote when the process runs inside an SSH
// session, ModeDesktop otherwise.
func DetectMode() Mode {
	if os.Getenv("SSH_TTY") != "" || os.Getenv("SSH_CONNECTION") != "" {
		return ModeRemote
	}
	return ModeDesktop
}

// NewSampler returns the idle sampler for the given mode: HID idle
// time at the desktop, terminal access time over SSH.
func NewSampler(mode Mode, timeout time.Duration) idle.Sampler {
	if mode == ModeRemote {
		return tty.NewSampler("")
	}
	return ioreg.NewSampler(timeout)
}
