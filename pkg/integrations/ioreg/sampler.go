// Package ioreg samples user idle time from the macOS IOKit registry.
package ioreg

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 5 * time.Second

// Sampler reads HIDIdleTime from `ioreg -c IOHIDSystem`.
type Sampler struct {
	timeout time.Duration
}

// NewSampler creates an ioreg-backed idle sampler.
func NewSampler(timeout time.Duration) *Sampler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Sampler{timeout: timeout}
}

// Available checks if the ioreg binary is in PATH.
func (s *Sampler) Available() bool {
	_, err := exec.LookPath("ioreg")
	return err == nil
}

// IdleTime returns the elapsed time since the last HID input event.
func (s *Sampler) IdleTime(ctx context.Context) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "ioreg", "-c", "IOHIDSystem").Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return 0, errors.Errorf("ioreg timed out after %v", s.timeout)
		}
		return 0, errors.Wrap(err, "ioreg failed")
	}

	return parseHIDIdleTime(string(out))
}

// parseHIDIdleTime extracts the HIDIdleTime value (nanoseconds) from
// ioreg output.
func parseHIDIdleTime(out string) (time.Duration, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "HIDIdleTime") {
			continue
		}
		_, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		ns, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, errors.Wrap(err, "malformed HIDIdleTime value")
		}
		return time.Duration(ns), nil
	}
	return 0, errors.New("HIDIdleTime not found in ioreg output")
}
