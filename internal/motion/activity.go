package motion

import (
	"context"
	"time"
)

// ActivityMonitor blocks until the cursor has been left alone for a
// number of consecutive sampling intervals.
type ActivityMonitor struct {
	clock    Clock
	cursor   Cursor
	interval time.Duration
	required int
}

// NewActivityMonitor returns a monitor that samples every interval and
// needs required still samples in a row.
func NewActivityMonitor(clock Clock, cursor Cursor, interval time.Duration, required int) *ActivityMonitor {
	return &ActivityMonitor{clock: clock, cursor: cursor, interval: interval, required: required}
}

// WaitForInactivity samples the cursor until it has stayed still for
// the required number of intervals, comparing each sample against the
// previous one starting from *anchor. Any movement restarts the count.
// On return *anchor holds the last sample. It returns the number of
// samples taken, and ctx.Err() if ctx ended the wait early.
func (m *ActivityMonitor) WaitForInactivity(ctx context.Context, anchor *Point) (int, error) {
	samples := 0
	for checks := 0; checks < m.required; {
		if err := m.clock.Wait(ctx, m.interval); err != nil {
			return samples, err
		}
		current, err := position(m.cursor)
		if err != nil {
			return samples, err
		}
		samples++

		if travelled(*anchor, current) {
			checks = 0
		} else {
			checks++
		}
		*anchor = current
	}
	return samples, nil
}
