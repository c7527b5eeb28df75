package integration

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/keepalive-motion/internal/config"
	"github.com/stigoleg/keepalive-motion/internal/keepalive"
	"github.com/stigoleg/keepalive-motion/internal/motion"
	"github.com/stigoleg/keepalive-motion/internal/motion/motiontest"
	"github.com/stigoleg/keepalive-motion/internal/platform"
)

var screen = motion.WorkArea{Left: 0, Top: 0, Right: 2560, Bottom: 1440}

func newKeeper(t *testing.T, settings motion.Settings, cursor platform.Cursor, clock motion.Clock) *keepalive.Keeper {
	t.Helper()
	k := keepalive.New(settings,
		keepalive.WithClock(clock),
		keepalive.WithCursorFactory(func() (platform.Cursor, error) { return cursor, nil }),
		keepalive.WithStopTimeout(2*time.Second),
	)
	t.Cleanup(func() { _ = k.Stop() })
	return k
}

func waitDone(t *testing.T, k *keepalive.Keeper) {
	t.Helper()
	select {
	case <-k.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end")
	}
}

// nudgingClock moves the cursor like a user would during the n-th sleep.
type nudgingClock struct {
	*motiontest.Desktop
	mu     sync.Mutex
	sleeps int
	after  int
}

func (c *nudgingClock) Sleep(d time.Duration) {
	c.Desktop.Sleep(d)

	c.mu.Lock()
	c.sleeps++
	nudge := c.sleeps == c.after
	c.mu.Unlock()
	if nudge {
		c.Desktop.Nudge(-60, 20)
	}
}

// stuckCursor blocks relative moves until released.
type stuckCursor struct {
	*motiontest.Desktop
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (c *stuckCursor) Move(dx, dy int) error {
	c.once.Do(func() { close(c.entered) })
	<-c.release
	return c.Desktop.Move(dx, dy)
}

func TestConfiguredSessionDrawsAroundResolvedAnchor(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[motion]\nradius = 50\n"), 0o644))

	m, err := config.NewManager(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Load())

	desk := motiontest.NewDesktop(motion.Point{X: 50, Y: 50}, screen)
	k := newKeeper(t, m.Get().Settings(), desk, desk)

	require.NoError(t, k.StartIndefinite())
	require.Eventually(t, func() bool { return k.Status().Figures >= 2 }, 5*time.Second, time.Millisecond)
	require.NoError(t, k.Stop())

	st := k.Status()
	assert.Equal(t, motion.Point{X: 200, Y: 200}, st.Anchor, "diameter of a radius 50 figure is 200")
	assert.Zero(t, st.Interruptions)
	assert.GreaterOrEqual(t, desk.Relocations(), 1+2*2, "start plus two per figure")
	assert.True(t, desk.Closed())
}

func TestInterruptedFigureResumesAfterIdle(t *testing.T) {
	desk := motiontest.NewDesktop(motion.Point{X: 1280, Y: 720}, screen)
	clock := &nudgingClock{Desktop: desk, after: 37}

	settings := motion.DefaultSettings()
	settings.QuietChecks = 2
	k := newKeeper(t, settings, desk, clock)

	require.NoError(t, k.StartIndefinite())
	require.Eventually(t, func() bool {
		st := k.Status()
		return st.Interruptions == 1 && st.Figures >= 1
	}, 5*time.Second, time.Millisecond)
	require.NoError(t, k.Stop())

	st := k.Status()
	assert.NotEqual(t, motion.Point{X: 1280, Y: 720}, st.Anchor, "the figure moved to where the user left the cursor")
	assert.Equal(t, keepalive.HealthOK, k.Health())
}

func TestTimedSessionEndsByItself(t *testing.T) {
	desk := motiontest.NewDesktop(motion.Point{X: 1280, Y: 720}, screen)
	k := newKeeper(t, motion.DefaultSettings(), desk, desk)

	require.NoError(t, k.StartTimed(100*time.Millisecond))
	waitDone(t, k)

	assert.False(t, k.IsRunning())
	assert.Equal(t, keepalive.HealthOK, k.Health())
	assert.Equal(t, motion.StateStopped, k.Status().State)
	assert.Positive(t, desk.Moves())
	assert.True(t, desk.Closed())
}

func TestStopDuringIdleWaitIsPrompt(t *testing.T) {
	desk := motiontest.NewDesktop(motion.Point{X: 1280, Y: 720}, screen)
	clock := &nudgingClock{Desktop: desk, after: 5}

	settings := motion.DefaultSettings()
	settings.QuietChecks = 1_000_000
	k := newKeeper(t, settings, desk, clock)

	require.NoError(t, k.StartIndefinite())
	require.Eventually(t, func() bool {
		return k.Status().State == motion.StateIdleWaiting
	}, 5*time.Second, time.Millisecond)

	begin := time.Now()
	require.NoError(t, k.Stop())
	assert.Less(t, time.Since(begin), time.Second)
}

func TestStopTimeoutWhenCursorHangs(t *testing.T) {
	desk := motiontest.NewDesktop(motion.Point{X: 1280, Y: 720}, screen)
	cursor := &stuckCursor{
		Desktop: desk,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	k := newKeeper(t, motion.DefaultSettings(), cursor, desk)

	require.NoError(t, k.StartIndefinite())
	<-cursor.entered

	err := k.StopWithTimeout(50 * time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(cursor.release)
	waitDone(t, k)
	assert.False(t, k.IsRunning())
	assert.True(t, desk.Closed())
}
