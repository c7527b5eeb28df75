package util

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCommand(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		expected bool
	}{
		{name: "nonexistent command", command: "this-command-definitely-does-not-exist-12345", expected: false},
		{name: "empty string", command: "", expected: false},
	}
	if runtime.GOOS != "windows" {
		tests = append(tests, struct {
			name     string
			command  string
			expected bool
		}{name: "shell exists", command: "sh", expected: true})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasCommand(tt.command))
		})
	}
}

func TestOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}

	out, err := Output(context.Background(), "sh", "-c", "echo ' x=10 '")
	require.NoError(t, err)
	assert.Equal(t, "x=10", out)

	_, err = Output(context.Background(), "sh", "-c", "echo 'cannot open display' >&2; exit 1")
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "sh: cannot open display", err.Error())

	var exitErr *exec.ExitError
	assert.True(t, errors.As(err, &exitErr))
}
