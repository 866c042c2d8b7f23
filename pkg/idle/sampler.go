package idle

import (
	"context"
	"time"
)

// Sampler measures how long the user has gone without providing input.
// The sampling primitive differs by execution mode (local HID idle time
// on a desktop, terminal access time over SSH); the poller logic does
// not.
type Sampler interface {
	// IdleTime returns the elapsed time since the last user input.
	IdleTime(ctx context.Context) (time.Duration, error)

	// Available checks if this sampler can run on the current system.
	Available() bool
}

// Schedule is an ordered, ascending list of wait offsets from the
// poller's start time at which idle time is re-sampled.
type Schedule []time.Duration

var (
	// DesktopSchedule re-checks twice: a quick check to catch users who
	// only glanced away, then a longer one before paging them.
	DesktopSchedule = Schedule{3 * time.Second, 23 * time.Second}

	// RemoteSchedule is a single longer check; terminal access time is
	// too coarse for the short first step to mean anything.
	RemoteSchedule = Schedule{30 * time.Second}
)
