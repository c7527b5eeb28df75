//go:build !darwin && !linux && !windows

package platform

import "github.com/rs/zerolog"

func newCursor(zerolog.Logger, Options) (Cursor, error) {
	return nil, ErrUnsupported
}

func checkCapability() Capability {
	return Capability{ErrorMessage: ErrUnsupported.Error()}
}
