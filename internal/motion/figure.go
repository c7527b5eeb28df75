package motion

import (
	"time"

	"github.com/rs/zerolog"
)

// FigureEight draws two lobes that meet at the anchor: the first to the
// left of it clockwise, the second to the right counter-clockwise.
type FigureEight struct {
	walker   *Walker
	clock    Clock
	radius   int
	log      zerolog.Logger
	lastLobe time.Duration
}

// NewFigureEight returns a drawer for lobes of the given radius.
func NewFigureEight(walker *Walker, clock Clock, radius int, log zerolog.Logger) *FigureEight {
	return &FigureEight{walker: walker, clock: clock, radius: radius, log: log}
}

// Lobes returns the two arcs of the figure. Both start and end on the
// anchor.
func (f *FigureEight) Lobes() [2]ArcSpec {
	return [2]ArcSpec{
		{StartDegree: 0, EndDegree: 360, CenterOffset: -f.radius, Clockwise: true},
		{StartDegree: 180, EndDegree: -180, CenterOffset: f.radius, Clockwise: false},
	}
}

// Draw walks both lobes and reports whether the figure was completed.
// The second lobe is skipped when the first one is interrupted.
func (f *FigureEight) Draw(anchor *Point) (bool, error) {
	for i, lobe := range f.Lobes() {
		sw := StartStopwatch(f.clock)
		done, err := f.walker.Walk(anchor, lobe)
		if err != nil || !done {
			return false, err
		}
		f.lastLobe = sw.Stop()
		f.log.Debug().
			Int("lobe", i+1).
			Float64("seconds", f.lastLobe.Seconds()).
			Msg("Lobe completed")
	}
	return true, nil
}

// LastLobe returns how long the most recently completed lobe took.
func (f *FigureEight) LastLobe() time.Duration {
	return f.lastLobe
}
