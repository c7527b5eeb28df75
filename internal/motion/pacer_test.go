package motion

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetTicksPerStep(t *testing.T) {
	assert.Equal(t, int64(27_777), TargetTicksPerStep(20_000_000, 0.5))
	assert.Equal(t, int64(55_555), TargetTicksPerStep(20_000_000, 1))
	assert.Equal(t, int64(2_500_000), TargetTicksPerStep(20_000_000, 45))
}

func TestPacerConvergesUnderConstantLatency(t *testing.T) {
	tests := []struct {
		name    string
		latency time.Duration
	}{
		{"no latency", 0},
		{"two milliseconds", 2 * time.Millisecond},
		{"just under budget", 2700 * time.Microsecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSim(Point{X: 500, Y: 500})
			s.latency = tt.latency
			p := NewPacer(s, s, 27_777, 25_000)

			for i := 0; i < 10; i++ {
				_, quiet, err := p.Step(1, 0)
				require.NoError(t, err)
				require.True(t, quiet)
			}

			assert.Equal(t, 27_777-Ticks(tt.latency), p.Delay())

			before := s.now
			_, _, err := p.Step(1, 0)
			require.NoError(t, err)
			assert.Equal(t, TickDuration(p.Target()), s.now-before, "a converged step should take exactly the target")
		})
	}
}

func TestPacerDelayMayGoNegative(t *testing.T) {
	s := newSim(Point{})
	s.latency = 5 * time.Millisecond
	p := NewPacer(s, s, 27_777, 25_000)

	_, _, err := p.Step(1, 1)
	require.NoError(t, err)
	assert.Negative(t, p.Delay())

	slept := s.slept
	_, _, err = p.Step(1, 1)
	require.NoError(t, err)
	assert.Equal(t, slept, s.slept, "negative delays must not sleep")
}

func TestPacerReportsActivity(t *testing.T) {
	s := newSim(Point{X: 10, Y: 10})
	s.nudgeAfterMove = 2
	s.nudge = Point{X: 0, Y: 4}
	p := NewPacer(s, s, 27_777, 25_000)

	after, quiet, err := p.Step(1, 0)
	require.NoError(t, err)
	assert.True(t, quiet)
	assert.Equal(t, Point{X: 11, Y: 10}, after)

	after, quiet, err = p.Step(1, 0)
	require.NoError(t, err)
	assert.False(t, quiet)
	assert.Equal(t, Point{X: 12, Y: 14}, after)
}

func TestPacerMoveFailure(t *testing.T) {
	tests := []struct {
		name    string
		osErr   error
		wantMsg string
	}{
		{"os text", errors.New("Access is denied."), "unable to move the cursor: Access is denied."},
		{"no os text", errors.New(""), "unable to move the cursor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &mockCursor{}
			c.On("Move", 3, -1).Return(tt.osErr)
			p := NewPacer(newSim(Point{}), c, 27_777, 25_000)

			_, _, err := p.Step(3, -1)
			require.Error(t, err)
			assert.True(t, IsExternal(err))
			assert.EqualError(t, err, tt.wantMsg)
			assert.ErrorIs(t, err, tt.osErr)

			var ext *ExternalError
			require.ErrorAs(t, err, &ext)
			assert.Equal(t, OpMove, ext.Op)

			c.AssertExpectations(t)
			c.AssertNotCalled(t, "Position")
		})
	}
}
