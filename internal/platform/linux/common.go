//go:build linux

package linux

import (
	"context"

	"github.com/stigoleg/keepalive-motion/internal/util"
)

// Runner executes a helper command and returns its trimmed stdout.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// hasCommand checks if a command is available in the system PATH.
// Tests replace it to simulate missing tools.
var hasCommand = util.HasCommand

func defaultRunner() Runner {
	return util.Output
}
