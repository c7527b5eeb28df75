//go:build linux

package platform

import (
	"github.com/rs/zerolog"

	"github.com/stigoleg/keepalive-motion/internal/platform/linux"
)

func newCursor(log zerolog.Logger, opts Options) (Cursor, error) {
	return linux.NewX11Cursor(log, opts.Input)
}

func checkCapability() Capability {
	caps := linux.DetectCapabilities()
	switch {
	case caps.DisplayServer == linux.DisplayServerWayland:
		return Capability{
			ErrorMessage: linux.ErrWayland.Error(),
			Instructions: "Choose an X11 (Xorg) session on the login screen and start keepalive again.",
		}
	case !caps.XdotoolAvailable:
		return Capability{
			ErrorMessage: "xdotool is required to read and move the cursor",
			Instructions: linux.DependencyMessage(),
		}
	}
	return Capability{CanControl: true}
}
