// Package platform connects the motion engine to the operating
// system's cursor.
package platform

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/stigoleg/keepalive-motion/internal/motion"
)

// ErrUnsupported is returned on operating systems without a cursor adapter.
var ErrUnsupported = errors.New("cursor control is not supported on this platform")

// Cursor is a motion.Cursor backed by the operating system.
type Cursor interface {
	motion.Cursor
	Name() string
	Close() error
}

// Options selects platform specific behaviour.
type Options struct {
	// Input picks the Linux relative-move backend, "xdotool" or "uinput".
	Input string
}

// NewCursor opens the cursor of the current desktop session.
func NewCursor(log zerolog.Logger, opts Options) (Cursor, error) {
	c, err := newCursor(log, opts)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("cursor", c.Name()).Msg("Cursor adapter opened")
	return c, nil
}

// Capability represents the result of checking if the cursor can be driven
type Capability struct {
	// CanControl indicates whether the cursor can be read and moved
	CanControl bool

	// ErrorMessage is a user-friendly error message if it cannot
	ErrorMessage string

	// Instructions provides step-by-step instructions to fix the issue
	Instructions string
}

// CheckCapability reports whether this session allows cursor control.
// It should be called before starting so problems surface early.
func CheckCapability() Capability {
	return checkCapability()
}
