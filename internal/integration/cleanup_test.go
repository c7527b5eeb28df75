//go:build !windows

package integration

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/keepalive-motion/internal/keepalive"
	"github.com/stigoleg/keepalive-motion/internal/motion"
	"github.com/stigoleg/keepalive-motion/internal/motion/motiontest"
	"github.com/stigoleg/keepalive-motion/internal/platform"
)

const (
	helperEnv   = "TEST_KEEPALIVE_SIGNAL_HELPER"
	helperReady = "ready"

	exitNotReleased = 2
	exitStartFailed = 3
)

func shutdownSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGTSTP,
	}
}

// TestCleanupOnSignal runs a keeper in a child process and verifies that
// every shutdown signal stops it and releases the cursor.
func TestCleanupOnSignal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping cleanup test in short mode")
	}

	for _, sig := range shutdownSignals() {
		t.Run(sig.String(), func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=^TestSignalHelper$")
			cmd.Env = append(os.Environ(), helperEnv+"=1")
			stdout, err := cmd.StdoutPipe()
			require.NoError(t, err)
			require.NoError(t, cmd.Start(), "helper process should start")

			ready := make(chan struct{})
			go func() {
				scanner := bufio.NewScanner(stdout)
				for scanner.Scan() {
					if scanner.Text() == helperReady {
						close(ready)
						break
					}
				}
				_, _ = io.Copy(io.Discard, stdout)
			}()

			select {
			case <-ready:
			case <-time.After(10 * time.Second):
				_ = cmd.Process.Kill()
				t.Fatal("helper did not start drawing")
			}

			require.NoError(t, cmd.Process.Signal(sig))

			done := make(chan error, 1)
			go func() { done <- cmd.Wait() }()

			select {
			case err := <-done:
				assert.NoError(t, err, "process should exit cleanly after %s", sig)
			case <-time.After(5 * time.Second):
				_ = cmd.Process.Kill()
				t.Fatalf("process did not exit within timeout after %s", sig)
			}
		})
	}
}

// TestSignalHelper is the child process of TestCleanupOnSignal.
func TestSignalHelper(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		t.Skip("helper process only")
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals()...)
	defer stop()

	desk := motiontest.NewDesktop(motion.Point{X: 1280, Y: 720}, screen)
	k := keepalive.New(motion.DefaultSettings(),
		keepalive.WithClock(desk),
		keepalive.WithCursorFactory(func() (platform.Cursor, error) { return desk, nil }),
	)
	if err := k.StartIndefinite(); err != nil {
		os.Exit(exitStartFailed)
	}
	for k.Status().Figures == 0 {
		time.Sleep(time.Millisecond)
	}
	fmt.Println(helperReady)

	<-ctx.Done()
	if err := k.Stop(); err != nil || !desk.Closed() {
		os.Exit(exitNotReleased)
	}
	os.Exit(0)
}
