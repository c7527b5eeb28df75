package util

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// HasCommand checks if a command is available in the system PATH.
func HasCommand(name string) bool {
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}

// DefaultCommandTimeout bounds helper processes such as xdotool.
const DefaultCommandTimeout = 2 * time.Second

// Output runs name with args and returns its trimmed stdout. When the
// command fails, the error carries the command's stderr text if any.
func Output(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", &CommandError{Name: name, Msg: msg, Err: err}
		}
		return "", &CommandError{Name: name, Err: err}
	}
	return strings.TrimSpace(string(out)), nil
}

// CommandError is a failed helper process.
type CommandError struct {
	Name string
	Msg  string
	Err  error
}

func (e *CommandError) Error() string {
	if e.Msg != "" {
		return e.Name + ": " + e.Msg
	}
	return e.Name + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
