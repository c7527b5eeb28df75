package motion

import "math"

// TargetTicksPerStep splits a revolution's budget evenly over its steps,
// rounding down.
func TargetTicksPerStep(ticksPerRevolution int64, degreeIncrement float64) int64 {
	steps := 360 / degreeIncrement
	return int64(math.Floor(float64(ticksPerRevolution) / steps))
}

// Pacer issues single cursor steps and keeps the time spent per step
// at a fixed target. The post-step delay is corrected after every step
// by the difference between the target and what the step actually
// took, so constant overhead in the move call is absorbed.
type Pacer struct {
	clock  Clock
	cursor Cursor
	target int64
	delay  int64
}

// NewPacer returns a pacer aiming at target ticks per step, starting
// from initialDelay ticks of post-step sleep.
func NewPacer(clock Clock, cursor Cursor, target, initialDelay int64) *Pacer {
	return &Pacer{
		clock:  clock,
		cursor: cursor,
		target: target,
		delay:  initialDelay,
	}
}

// Target returns the per-step budget in ticks.
func (p *Pacer) Target() int64 {
	return p.target
}

// Delay returns the current post-step delay in ticks. It may be
// negative when the move call alone exceeds the budget.
func (p *Pacer) Delay() int64 {
	return p.delay
}

// Step moves the cursor by (dx, dy), sleeps for the current delay and
// samples the cursor on both sides of the sleep. It returns the
// position after the sleep and whether the cursor stayed put while
// sleeping. A moved cursor means someone else is using it.
func (p *Pacer) Step(dx, dy int) (after Point, quiet bool, err error) {
	sw := StartStopwatch(p.clock)

	if err := move(p.cursor, dx, dy); err != nil {
		return Point{}, false, err
	}
	before, err := position(p.cursor)
	if err != nil {
		return Point{}, false, err
	}

	p.clock.Sleep(TickDuration(p.delay))

	after, err = position(p.cursor)
	if err != nil {
		return Point{}, false, err
	}

	p.delay += p.target - sw.ElapsedTicks()
	return after, !travelled(before, after), nil
}
