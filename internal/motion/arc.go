package motion

import "math"

// ArcSpec describes one lobe. The circle is centred CenterOffset pixels
// to the right of the anchor (negative values go left) and walked from
// StartDegree to EndDegree.
type ArcSpec struct {
	StartDegree  float64
	EndDegree    float64
	CenterOffset int
	Clockwise    bool
}

// Steps returns how many increments the arc takes.
func (a ArcSpec) Steps(increment float64) int {
	if increment <= 0 {
		return 0
	}
	return int(math.Round(math.Abs(a.EndDegree-a.StartDegree) / increment))
}

// Degree returns the angle of step i.
func (a ArcSpec) Degree(i int, increment float64) float64 {
	if !a.Clockwise {
		increment = -increment
	}
	return a.StartDegree + float64(i)*increment
}

// Walker steps the cursor along a single arc.
type Walker struct {
	cursor    Cursor
	pacer     *Pacer
	radius    float64
	increment float64
}

// NewWalker returns a walker for circles of the given radius.
func NewWalker(cursor Cursor, pacer *Pacer, radius int, increment float64) *Walker {
	return &Walker{
		cursor:    cursor,
		pacer:     pacer,
		radius:    float64(radius),
		increment: increment,
	}
}

// Walk draws arc around *anchor. It returns false as soon as the cursor
// is moved by someone else, leaving *anchor at the cursor's position at
// that moment. When the arc completes the cursor is put back on the
// anchor and Walk returns true. Errors are always *ExternalError.
func (w *Walker) Walk(anchor *Point, arc ArcSpec) (bool, error) {
	center := Point{X: anchor.X + arc.CenterOffset, Y: anchor.Y}

	for i, steps := 0, arc.Steps(w.increment); i < steps; i++ {
		x, y := PointOnCircle(center, w.radius, arc.Degree(i, w.increment))

		current, err := position(w.cursor)
		if err != nil {
			return false, err
		}
		dx, dy := moveDelta(x, y, current)
		if absSum(dx, dy) < 1 {
			continue
		}

		after, quiet, err := w.pacer.Step(dx, dy)
		if err != nil {
			return false, err
		}
		if !quiet {
			*anchor = after
			return false, nil
		}
	}

	if err := relocate(w.cursor, *anchor); err != nil {
		return false, err
	}
	return true, nil
}
