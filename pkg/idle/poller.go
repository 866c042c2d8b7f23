package idle

import (
	"context"
	"time"
)

// Outcome is the terminal state of one polling run.
type Outcome int

const (
	// Active means the user supplied input during the run (or idle
	// status could not be determined); no push alert should be sent.
	Active Outcome = iota

	// Idle means every scheduled check passed without detected
	// activity; the user is away and a push alert is warranted.
	Idle
)

func (o Outcome) String() string {
	if o == Idle {
		return "idle"
	}
	return "active"
}

// DefaultSlack absorbs sampling granularity and scheduling jitter when
// comparing measured idle time against elapsed wall-clock time. It is
// a tunable, not a derived constant.
const DefaultSlack = 2 * time.Second

// Poller decides whether the user is away from the machine by
// re-sampling idle time at increasing offsets from a baseline. It is
// short-lived: one Run per notify invocation, no shared state.
type Poller struct {
	sampler  Sampler
	schedule Schedule
	slack    time.Duration

	// Injected in tests to avoid real sleeps.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool
}

// NewPoller creates a poller over the given sampler and schedule. A
// non-positive slack falls back to DefaultSlack.
func NewPoller(sampler Sampler, schedule Schedule, slack time.Duration) *Poller {
	if slack <= 0 {
		slack = DefaultSlack
	}
	return &Poller{
		sampler:  sampler,
		schedule: schedule,
		slack:    slack,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Run executes the sampling schedule and returns the terminal state.
// Any failure to measure idle time resolves to Active: a push is never
// sent when idle status cannot be determined.
func (p *Poller) Run(ctx context.Context) Outcome {
	if len(p.schedule) == 0 || p.sampler == nil || !p.sampler.Available() {
		return Active
	}

	start := p.now()
	if _, err := p.sampler.IdleTime(ctx); err != nil {
		return Active
	}

	for _, offset := range p.schedule {
		wait := offset - p.now().Sub(start)
		if wait > 0 && !p.sleep(ctx, wait) {
			return Active
		}

		measured, err := p.sampler.IdleTime(ctx)
		if err != nil {
			return Active
		}

		// Idle time that lags elapsed time by more than the slack
		// means input arrived somewhere inside the window.
		elapsed := p.now().Sub(start)
		if measured < elapsed-p.slack {
			return Active
		}
	}

	return Idle
}

// sleepCtx sleeps for d or until ctx is done, reporting whether the
// full duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
