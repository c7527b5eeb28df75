package motion

import (
	"context"
	"runtime"
	"time"
)

// Tick is the smallest unit the pacer measures in.
const Tick = 100 * time.Nanosecond

// spinWindow is the tail of a sleep that is spent yielding instead of
// parked in the scheduler, so short waits are not rounded up to the
// timer granularity of the host.
const spinWindow = time.Millisecond

// Ticks converts a duration to whole ticks.
func Ticks(d time.Duration) int64 {
	return int64(d / Tick)
}

// TickDuration converts ticks to a duration. Negative ticks yield a
// negative duration, which every Clock treats as no wait at all.
func TickDuration(ticks int64) time.Duration {
	return time.Duration(ticks) * Tick
}

// Clock is the monotonic time source used by the engine.
type Clock interface {
	// Now returns the monotonic time elapsed since the clock was created.
	Now() time.Duration
	// Sleep blocks for d. A non-positive d returns immediately.
	Sleep(d time.Duration)
	// Wait blocks for d or until ctx is done, returning ctx.Err() in
	// the latter case.
	Wait(ctx context.Context, d time.Duration) error
}

type systemClock struct {
	origin time.Time
}

// NewSystemClock returns a Clock backed by the runtime's monotonic clock.
func NewSystemClock() Clock {
	return &systemClock{origin: time.Now()}
}

func (c *systemClock) Now() time.Duration {
	return time.Since(c.origin)
}

func (c *systemClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	deadline := c.Now() + d
	if d > spinWindow {
		time.Sleep(d - spinWindow)
	}
	for c.Now() < deadline {
		runtime.Gosched()
	}
}

func (c *systemClock) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Stopwatch measures elapsed time on a Clock.
type Stopwatch struct {
	clock   Clock
	start   time.Duration
	elapsed time.Duration
	running bool
}

// StartStopwatch returns a running stopwatch.
func StartStopwatch(clock Clock) *Stopwatch {
	return &Stopwatch{clock: clock, start: clock.Now(), running: true}
}

// Stop freezes the stopwatch and returns the elapsed time.
func (s *Stopwatch) Stop() time.Duration {
	if s.running {
		s.elapsed = s.clock.Now() - s.start
		s.running = false
	}
	return s.elapsed
}

// Elapsed returns the time measured so far.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.running {
		return s.clock.Now() - s.start
	}
	return s.elapsed
}

// ElapsedTicks returns Elapsed in ticks.
func (s *Stopwatch) ElapsedTicks() int64 {
	return Ticks(s.Elapsed())
}
