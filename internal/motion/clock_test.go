package motion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickConversions(t *testing.T) {
	assert.Equal(t, int64(10_000), Ticks(time.Millisecond))
	assert.Equal(t, 2*time.Second, TickDuration(20_000_000))
	assert.Equal(t, -time.Millisecond, TickDuration(-10_000))
}

func TestSystemClockSleep(t *testing.T) {
	clock := NewSystemClock()

	start := clock.Now()
	clock.Sleep(-5 * time.Millisecond)
	clock.Sleep(0)
	assert.Less(t, clock.Now()-start, 50*time.Millisecond, "non-positive sleeps must return immediately")

	start = clock.Now()
	clock.Sleep(3 * time.Millisecond)
	assert.GreaterOrEqual(t, clock.Now()-start, 3*time.Millisecond)

	start = clock.Now()
	clock.Sleep(200 * time.Microsecond)
	assert.GreaterOrEqual(t, clock.Now()-start, 200*time.Microsecond)
}

func TestSystemClockWait(t *testing.T) {
	clock := NewSystemClock()

	require.NoError(t, clock.Wait(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := clock.Wait(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestStopwatch(t *testing.T) {
	s := newSim(Point{})
	sw := StartStopwatch(s)

	s.now += 3 * time.Millisecond
	assert.Equal(t, 3*time.Millisecond, sw.Elapsed())
	assert.Equal(t, int64(30_000), sw.ElapsedTicks())

	assert.Equal(t, 3*time.Millisecond, sw.Stop())
	s.now += time.Second
	assert.Equal(t, 3*time.Millisecond, sw.Elapsed(), "a stopped stopwatch must not advance")
}
