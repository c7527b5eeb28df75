package motion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForInactivityQuiet(t *testing.T) {
	for _, required := range []int{1, 3, 6} {
		s := newSim(Point{X: 10, Y: 10})
		m := NewActivityMonitor(s, s, 5*time.Second, required)

		anchor := s.pos
		samples, err := m.WaitForInactivity(context.Background(), &anchor)
		require.NoError(t, err)
		assert.Equal(t, required, samples)
		assert.Equal(t, time.Duration(required)*5*time.Second, s.now)
	}
}

func TestWaitForInactivityRestartsOnMovement(t *testing.T) {
	const required = 6

	for k := 0; k < 8; k++ {
		s := newSim(Point{X: 10, Y: 10})
		s.onWait = func(s *sim) error {
			if s.waits-1 == k {
				s.pos.X += 15
			}
			return nil
		}
		m := NewActivityMonitor(s, s, 5*time.Second, required)

		anchor := Point{X: 10, Y: 10}
		samples, err := m.WaitForInactivity(context.Background(), &anchor)
		require.NoError(t, err)
		assert.Equal(t, k+1+required, samples, "displacement at sample %d", k)
		assert.Equal(t, Point{X: 25, Y: 10}, anchor)
	}
}

func TestWaitForInactivityComparesAgainstAnchor(t *testing.T) {
	s := newSim(Point{X: 50, Y: 50})
	m := NewActivityMonitor(s, s, time.Second, 2)

	// The cursor sits still, but away from the anchor the engine last
	// knew about, so the first sample counts as movement.
	anchor := Point{X: 40, Y: 40}
	samples, err := m.WaitForInactivity(context.Background(), &anchor)
	require.NoError(t, err)
	assert.Equal(t, 3, samples)
	assert.Equal(t, Point{X: 50, Y: 50}, anchor)
}

func TestWaitForInactivityCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSim(Point{})
	s.onWait = func(s *sim) error {
		if s.waits == 2 {
			cancel()
		}
		return nil
	}
	m := NewActivityMonitor(s, s, 5*time.Second, 6)

	anchor := Point{}
	samples, err := m.WaitForInactivity(ctx, &anchor)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, samples)
}

func TestWaitForInactivityPositionFailure(t *testing.T) {
	c := &mockCursor{}
	c.On("Position").Return(Point{}, errors.New("no display"))
	m := NewActivityMonitor(newSim(Point{}), c, time.Second, 6)

	anchor := Point{}
	_, err := m.WaitForInactivity(context.Background(), &anchor)
	assert.True(t, IsExternal(err))
	c.AssertNumberOfCalls(t, "Position", 1)
}
