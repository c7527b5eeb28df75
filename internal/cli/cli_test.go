package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/keepalive-motion/internal/keepalive"
	"github.com/stigoleg/keepalive-motion/internal/motion"
	"github.com/stigoleg/keepalive-motion/internal/motion/motiontest"
	"github.com/stigoleg/keepalive-motion/internal/platform"
)

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	root := newRootCommand(a)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func testApp() *app {
	a := newApp("1.2.3")
	a.capability = func() platform.Capability {
		return platform.Capability{CanControl: true}
	}
	return a
}

func TestVersion(t *testing.T) {
	out, err := execute(t, testApp(), "version")
	require.NoError(t, err)
	assert.Equal(t, "Keep-Alive Version: 1.2.3\n", out)

	out, err = execute(t, testApp(), "--version")
	require.NoError(t, err)
	assert.Equal(t, "Keep-Alive Version: 1.2.3\n", out)

	out, err = execute(t, newApp(""), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keepalive.toml")

	out, err := execute(t, testApp(), "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = execute(t, testApp(), "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, testApp(), "config", "init", "--config", path, "--force")
	require.NoError(t, err)

	out, err = execute(t, testApp(), "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "radius = 100")
	assert.Contains(t, out, "quiet_checks = 6")

	out, err = execute(t, testApp(), "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}

func TestConfigShowAppliesEnvironment(t *testing.T) {
	t.Setenv("KEEPALIVE_MOTION_RADIUS", "42")

	out, err := execute(t, testApp(), "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "radius = 42")
}

func TestConfigPathWithoutFile(t *testing.T) {
	out, err := execute(t, testApp(), "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "No config file found")
}

func TestRootRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"duration and until", []string{"--headless", "-d", "30", "-c", "22:00"}, "mutually exclusive"},
		{"bad duration", []string{"--headless", "-d", "soon"}, "invalid duration format"},
		{"bad radius", []string{"--headless", "--radius", "0"}, "radius must be positive"},
		{"bad input backend", []string{"--headless", "--input", "evdev"}, "invalid input backend"},
		{"extra arguments", []string{"now"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, testApp(), tt.args...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRootReportsMissingCapability(t *testing.T) {
	a := testApp()
	a.capability = func() platform.Capability {
		return platform.Capability{
			ErrorMessage: "Wayland session detected",
			Instructions: "Log in with an X11 session",
		}
	}

	_, err := execute(t, a, "--headless", "--log-level", "error")
	require.Error(t, err)
	assert.Equal(t, "Wayland session detected\n\nLog in with an X11 session", err.Error())
}

func TestHeadlessTimedSession(t *testing.T) {
	desktop := motiontest.NewDesktop(
		motion.Point{X: 50, Y: 50},
		motion.WorkArea{Right: 2560, Bottom: 1440},
	)

	a := testApp()
	a.keeperOpts = []keepalive.Option{
		keepalive.WithClock(desktop),
		keepalive.WithCursorFactory(func() (platform.Cursor, error) { return desktop, nil }),
	}

	begin := time.Now()
	_, err := execute(t, a, "--headless", "-d", "200ms", "--log-level", "error")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(begin), 200*time.Millisecond)
	assert.Positive(t, desktop.Moves())
	assert.True(t, desktop.Closed(), "the cursor is released when the session ends")
}

func TestHeadlessFailureExitsWithError(t *testing.T) {
	desktop := motiontest.NewDesktop(
		motion.Point{X: 1280, Y: 720},
		motion.WorkArea{Right: 2560, Bottom: 1440},
	)
	desktop.FailMoves(os.ErrPermission)

	a := testApp()
	a.keeperOpts = []keepalive.Option{
		keepalive.WithClock(desktop),
		keepalive.WithCursorFactory(func() (platform.Cursor, error) { return desktop, nil }),
	}

	_, err := execute(t, a, "--headless", "--log-level", "error")
	var ext *motion.ExternalError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, motion.OpMove, ext.Op)
}
