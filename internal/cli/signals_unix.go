//go:build !windows

package cli

import (
	"os"
	"syscall"
)

// shutdownSignals stop the keeper. Suspending with SIGTSTP stops it too.
func shutdownSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGTSTP,
	}
}
