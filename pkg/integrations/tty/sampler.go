// Package tty samples user idle time from the access time of the
// session's terminal device. Over SSH there is no HID subsystem to
// ask; keystrokes touch the tty's atime instead.
package tty

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Sampler measures idle time as now minus the terminal device's atime.
type Sampler struct {
	device string
	now    func() time.Time
}

// NewSampler creates a sampler for the given terminal device. An empty
// device falls back to $SSH_TTY.
func NewSampler(device string) *Sampler {
	if device == "" {
		device = os.Getenv("SSH_TTY")
	}
	return &Sampler{device: device, now: time.Now}
}

// Available checks if the terminal device exists and can be stat'd.
func (s *Sampler) Available() bool {
	if s.device == "" {
		return false
	}
	_, err := os.Stat(s.device)
	return err == nil
}

// IdleTime returns the elapsed time since the terminal was last read,
// which tracks the user's last keystroke in the session.
func (s *Sampler) IdleTime(ctx context.Context) (time.Duration, error) {
	if s.device == "" {
		return 0, errors.New("no terminal device to sample")
	}

	info, err := os.Stat(s.device)
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", s.device)
	}

	idle := s.now().Sub(accessTime(info))
	if idle < 0 {
		idle = 0
	}
	return idle, nil
}
