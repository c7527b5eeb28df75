// Package motiontest provides an in-memory desktop for exercising the
// motion engine without touching the real cursor.
package motiontest

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/stigoleg/keepalive-motion/internal/motion"
)

// Desktop is a fake cursor and clock. Virtual time advances only when
// the engine sleeps or waits, so figures complete in microseconds.
// It is safe for concurrent use.
type Desktop struct {
	mu          sync.Mutex
	pos         motion.Point
	area        motion.WorkArea
	now         time.Duration
	moves       int
	relocations int
	closed      bool
	moveErr     error
}

// NewDesktop returns a desktop with the cursor at pos.
func NewDesktop(pos motion.Point, area motion.WorkArea) *Desktop {
	return &Desktop{pos: pos, area: area}
}

func (d *Desktop) Name() string { return "fake" }

func (d *Desktop) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *Desktop) Position() (motion.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pos, nil
}

func (d *Desktop) Move(dx, dy int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.moveErr != nil {
		return d.moveErr
	}
	d.moves++
	d.pos.X += dx
	d.pos.Y += dy
	return nil
}

func (d *Desktop) Relocate(p motion.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.relocations++
	d.pos = p
	return nil
}

func (d *Desktop) WorkArea(motion.Point) (motion.WorkArea, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.area, nil
}

func (d *Desktop) Now() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.now
}

func (d *Desktop) Sleep(dur time.Duration) {
	if dur > 0 {
		d.mu.Lock()
		d.now += dur
		d.mu.Unlock()
	}
	runtime.Gosched()
}

// Wait advances virtual time by dur but yields for a real millisecond,
// so idle waits can be observed and cancelled.
func (d *Desktop) Wait(ctx context.Context, dur time.Duration) error {
	d.mu.Lock()
	d.now += dur
	d.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Millisecond):
		return nil
	}
}

// Nudge moves the cursor the way a user would.
func (d *Desktop) Nudge(dx, dy int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pos.X += dx
	d.pos.Y += dy
}

// FailMoves makes every following Move return err.
func (d *Desktop) FailMoves(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.moveErr = err
}

// Moves returns the number of relative moves applied.
func (d *Desktop) Moves() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.moves
}

// Relocations returns the number of absolute moves applied.
func (d *Desktop) Relocations() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.relocations
}

// Closed reports whether Close was called.
func (d *Desktop) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
