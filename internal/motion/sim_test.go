package motion

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// sim is a deterministic desktop: a cursor whose calls advance a fake
// clock. It is both the Cursor and the Clock handed to the engine.
type sim struct {
	now     time.Duration
	pos     Point
	area    WorkArea
	latency time.Duration

	moves       int
	relocations []Point
	waits       int
	slept       time.Duration

	// nudgeAfterMove displaces the cursor by nudge during the sleep
	// that follows that move, as if the user grabbed the mouse.
	nudgeAfterMove int
	nudge          Point

	// onWait runs on every activity wait before the sample is taken.
	onWait func(s *sim) error
}

func newSim(pos Point) *sim {
	return &sim{
		pos:  pos,
		area: WorkArea{Left: 0, Top: 0, Right: 2560, Bottom: 1440},
	}
}

func (s *sim) Now() time.Duration { return s.now }

func (s *sim) Sleep(d time.Duration) {
	if d > 0 {
		s.now += d
		s.slept += d
	}
	if s.nudgeAfterMove > 0 && s.moves == s.nudgeAfterMove {
		s.pos.X += s.nudge.X
		s.pos.Y += s.nudge.Y
		s.nudgeAfterMove = 0
	}
}

func (s *sim) Wait(ctx context.Context, d time.Duration) error {
	s.now += d
	s.waits++
	if s.onWait != nil {
		if err := s.onWait(s); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (s *sim) Position() (Point, error) { return s.pos, nil }

func (s *sim) Move(dx, dy int) error {
	s.now += s.latency
	s.moves++
	s.pos.X += dx
	s.pos.Y += dy
	return nil
}

func (s *sim) Relocate(p Point) error {
	s.pos = p
	s.relocations = append(s.relocations, p)
	return nil
}

func (s *sim) WorkArea(Point) (WorkArea, error) { return s.area, nil }

// mockCursor verifies calls across the platform boundary.
type mockCursor struct {
	mock.Mock
}

func (m *mockCursor) Position() (Point, error) {
	args := m.Called()
	return args.Get(0).(Point), args.Error(1)
}

func (m *mockCursor) Move(dx, dy int) error {
	return m.Called(dx, dy).Error(0)
}

func (m *mockCursor) Relocate(p Point) error {
	return m.Called(p).Error(0)
}

func (m *mockCursor) WorkArea(p Point) (WorkArea, error) {
	args := m.Called(p)
	return args.Get(0).(WorkArea), args.Error(1)
}
