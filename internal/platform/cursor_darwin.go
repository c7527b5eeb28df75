//go:build darwin

package platform

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stigoleg/keepalive-motion/internal/motion"
	"github.com/stigoleg/keepalive-motion/internal/util"
)

const accessibilityInstructions = "On macOS you must enable Accessibility for the process posting mouse events. " +
	"If you run from Terminal, enable Terminal in System Settings, Privacy and Security, Accessibility."

// darwinCursor drives the cursor through JavaScript for Automation.
// Every call starts an osascript process, so steps are slow and the
// pacer's delay settles below zero.
type darwinCursor struct {
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func newCursor(log zerolog.Logger, _ Options) (Cursor, error) {
	if !util.HasCommand("osascript") {
		return nil, ErrUnsupported
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &darwinCursor{log: log, ctx: ctx, cancel: cancel}, nil
}

func checkCapability() Capability {
	if !util.HasCommand("osascript") {
		return Capability{ErrorMessage: "osascript not found"}
	}
	return Capability{CanControl: true, Instructions: accessibilityInstructions}
}

func (c *darwinCursor) jxa(script string) (string, error) {
	return util.Output(c.ctx, "osascript", "-l", "JavaScript", "-e", script)
}

func (c *darwinCursor) Name() string { return "jxa" }

func (c *darwinCursor) Close() error {
	c.cancel()
	return nil
}

func (c *darwinCursor) Position() (motion.Point, error) {
	out, err := c.jxa(positionScript())
	if err != nil {
		return motion.Point{}, err
	}
	v, err := parseInts(out, 2)
	if err != nil {
		return motion.Point{}, err
	}
	return motion.Point{X: v[0], Y: v[1]}, nil
}

func (c *darwinCursor) Move(dx, dy int) error {
	_, err := c.jxa(moveScript(dx, dy))
	return err
}

func (c *darwinCursor) Relocate(p motion.Point) error {
	_, err := c.jxa(relocateScript(p))
	return err
}

func (c *darwinCursor) WorkArea(p motion.Point) (motion.WorkArea, error) {
	out, err := c.jxa(workAreaScript(p))
	if err != nil {
		return motion.WorkArea{}, err
	}
	v, err := parseInts(out, 4)
	if err != nil {
		return motion.WorkArea{}, err
	}
	return motion.WorkArea{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}, nil
}
