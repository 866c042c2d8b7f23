package idle

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
)

// fakeClock drives a Poller without real sleeps. Samples are returned
// in order, one per IdleTime call after the baseline.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) bool {
	c.t = c.t.Add(d)
	return true
}

type fakeSampler struct {
	baseline  time.Duration
	samples   []time.Duration
	err       error
	available bool
	calls     int
}

func (s *fakeSampler) IdleTime(ctx context.Context) (time.Duration, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.calls++
	if s.calls == 1 {
		return s.baseline, nil
	}
	i := s.calls - 2
	if i >= len(s.samples) {
		i = len(s.samples) - 1
	}
	return s.samples[i], nil
}

func (s *fakeSampler) Available() bool {
	return s.available
}

func newTestPoller(s Sampler, schedule Schedule, clock *fakeClock) *Poller {
	p := NewPoller(s, schedule, DefaultSlack)
	p.now = clock.now
	p.sleep = clock.sleep
	return p
}

func TestSamplerInterface(t *testing.T) {
	var _ Sampler = (*fakeSampler)(nil)
}

func TestRunActiveOnFirstSample(t *testing.T) {
	// Baseline idle 0s; at t0+3s the measured idle is only 1s, which
	// lags elapsed time by more than the slack: user typed something.
	clock := &fakeClock{t: time.Unix(1000, 0)}
	sampler := &fakeSampler{
		baseline:  0,
		samples:   []time.Duration{1 * time.Second},
		available: true,
	}
	poller := newTestPoller(sampler, DesktopSchedule, clock)

	if got := poller.Run(context.Background()); got != Active {
		t.Errorf("Run() = %v, want %v", got, Active)
	}

	// Remaining intervals must be skipped: baseline + one sample.
	if sampler.calls != 2 {
		t.Errorf("sampler calls = %d, want 2", sampler.calls)
	}
}

func TestRunIdleThroughAllIntervals(t *testing.T) {
	// Idle keeps pace with elapsed time at both t0+3s and t0+23s.
	clock := &fakeClock{t: time.Unix(1000, 0)}
	sampler := &fakeSampler{
		baseline:  0,
		samples:   []time.Duration{3 * time.Second, 23 * time.Second},
		available: true,
	}
	poller := newTestPoller(sampler, DesktopSchedule, clock)

	if got := poller.Run(context.Background()); got != Idle {
		t.Errorf("Run() = %v, want %v", got, Idle)
	}
	if sampler.calls != 3 {
		t.Errorf("sampler calls = %d, want 3", sampler.calls)
	}
}

func TestRunIdleWithinSlack(t *testing.T) {
	// Measured idle lags elapsed by less than the slack margin; that
	// is sampling granularity, not activity.
	clock := &fakeClock{t: time.Unix(1000, 0)}
	sampler := &fakeSampler{
		baseline:  0,
		samples:   []time.Duration{2 * time.Second, 22 * time.Second},
		available: true,
	}
	poller := newTestPoller(sampler, DesktopSchedule, clock)

	if got := poller.Run(context.Background()); got != Idle {
		t.Errorf("Run() = %v, want %v", got, Idle)
	}
}

func TestRunSamplerErrorIsActive(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	sampler := &fakeSampler{
		err:       errors.New("ioreg timed out"),
		available: true,
	}
	poller := newTestPoller(sampler, DesktopSchedule, clock)

	if got := poller.Run(context.Background()); got != Active {
		t.Errorf("Run() = %v, want %v", got, Active)
	}
}

func TestRunSamplerUnavailableIsActive(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	sampler := &fakeSampler{available: false}
	poller := newTestPoller(sampler, DesktopSchedule, clock)

	if got := poller.Run(context.Background()); got != Active {
		t.Errorf("Run() = %v, want %v", got, Active)
	}
	if sampler.calls != 0 {
		t.Errorf("sampler calls = %d, want 0", sampler.calls)
	}
}

func TestRunEmptySchedule(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	sampler := &fakeSampler{available: true}
	poller := newTestPoller(sampler, nil, clock)

	if got := poller.Run(context.Background()); got != Active {
		t.Errorf("Run() = %v, want %v", got, Active)
	}
}

func TestRunCancelledContext(t *testing.T) {
	sampler := &fakeSampler{
		baseline:  0,
		samples:   []time.Duration{30 * time.Second},
		available: true,
	}
	poller := NewPoller(sampler, RemoteSchedule, DefaultSlack)
	poller.now = (&fakeClock{t: time.Unix(1000, 0)}).now

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := poller.Run(ctx); got != Active {
		t.Errorf("Run() with cancelled context = %v, want %v", got, Active)
	}
}

func TestRemoteScheduleSingleStep(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	sampler := &fakeSampler{
		baseline:  0,
		samples:   []time.Duration{30 * time.Second},
		available: true,
	}
	poller := newTestPoller(sampler, RemoteSchedule, clock)

	if got := poller.Run(context.Background()); got != Idle {
		t.Errorf("Run() = %v, want %v", got, Idle)
	}
	if sampler.calls != 2 {
		t.Errorf("sampler calls = %d, want 2", sampler.calls)
	}
}

func TestOutcomeString(t *testing.T) {
	if Active.String() != "active" {
		t.Errorf("Active.String() = %s, want active", Active.String())
	}
	if Idle.String() != "idle" {
		t.Errorf("Idle.String() = %s, want idle", Idle.String())
	}
}
