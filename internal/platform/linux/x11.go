//go:build linux

package linux

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stigoleg/keepalive-motion/internal/motion"
)

// Input backends for relative moves.
const (
	InputXdotool = "xdotool"
	InputUinput  = "uinput"
)

const (
	settleAttempts = 5
	settleInterval = time.Millisecond
)

// ErrWayland is returned on Wayland sessions, where a client can
// neither read nor warp the global pointer.
var ErrWayland = errors.New("wayland sessions do not allow reading or warping the cursor; log in with an X11 session")

// X11Cursor reads and moves the cursor through xdotool.
type X11Cursor struct {
	run    Runner
	mover  MouseMover
	xprop  bool
	xrandr bool
	log    zerolog.Logger
	cancel context.CancelFunc
	ctx    context.Context
}

// NewX11Cursor checks the session and opens the requested input backend.
func NewX11Cursor(log zerolog.Logger, input string) (*X11Cursor, error) {
	caps := DetectCapabilities()
	if caps.DisplayServer == DisplayServerWayland {
		return nil, ErrWayland
	}
	if !caps.XdotoolAvailable {
		return nil, fmt.Errorf("xdotool not found\n\n%s", DependencyMessage())
	}

	run := defaultRunner()
	var mover MouseMover
	switch input {
	case "", InputXdotool:
		mover = newXdotoolMover(run)
	case InputUinput:
		if ok, msg := CheckUinputPermissions(); !ok {
			return nil, errors.New(msg)
		}
		sim := &UinputSimulator{}
		if err := sim.Setup(); err != nil {
			return nil, err
		}
		mover = &UinputMover{Sim: sim}
	default:
		return nil, fmt.Errorf("unknown input backend %q", input)
	}

	if !caps.XpropAvailable {
		log.Warn().Msg("xprop not found, using the full display as work area")
	}
	if !caps.XrandrAvailable {
		log.Warn().Msg("xrandr not found, the work area spans every monitor")
	}
	c := newX11Cursor(run, mover, caps.XpropAvailable, log)
	c.xrandr = caps.XrandrAvailable
	return c, nil
}

func newX11Cursor(run Runner, mover MouseMover, xprop bool, log zerolog.Logger) *X11Cursor {
	ctx, cancel := context.WithCancel(context.Background())
	return &X11Cursor{run: run, mover: mover, xprop: xprop, log: log, ctx: ctx, cancel: cancel}
}

func (c *X11Cursor) Name() string {
	return "x11/" + c.mover.Name()
}

func (c *X11Cursor) Position() (motion.Point, error) {
	out, err := c.run(c.ctx, "xdotool", "getmouselocation", "--shell")
	if err != nil {
		return motion.Point{}, err
	}
	return parseMouseLocation(out)
}

func (c *X11Cursor) Move(dx, dy int) error {
	if c.mover.Synchronous() {
		return c.mover.Move(dx, dy)
	}
	return c.moveAndSettle(dx, dy)
}

// moveAndSettle waits briefly for an asynchronous move to reach the
// X server so the next sample does not mistake it for the user.
func (c *X11Cursor) moveAndSettle(dx, dy int) error {
	before, err := c.Position()
	if err != nil {
		return err
	}
	if err := c.mover.Move(dx, dy); err != nil {
		return err
	}
	for i := 0; i < settleAttempts; i++ {
		p, err := c.Position()
		if err != nil {
			return err
		}
		if p != before {
			return nil
		}
		time.Sleep(settleInterval)
	}
	c.log.Debug().Int("dx", dx).Int("dy", dy).Msg("Move not observed before settle timeout")
	return nil
}

func (c *X11Cursor) Relocate(p motion.Point) error {
	_, err := c.run(c.ctx, "xdotool", "mousemove", "--", strconv.Itoa(p.X), strconv.Itoa(p.Y))
	return err
}

// WorkArea returns the part of the desktop work area that lies on the
// monitor nearest to p. Without xrandr the whole desktop work area is
// used.
func (c *X11Cursor) WorkArea(p motion.Point) (motion.WorkArea, error) {
	desktop, err := c.desktopArea()
	if err != nil {
		return motion.WorkArea{}, err
	}
	if !c.xrandr {
		return desktop, nil
	}

	out, err := c.run(c.ctx, "xrandr", "--listactivemonitors")
	if err != nil {
		c.log.Debug().Err(err).Msg("Monitors not listed, using the desktop work area")
		return desktop, nil
	}
	monitors, err := parseMonitors(out)
	if err != nil {
		c.log.Debug().Err(err).Msg("Monitors not parsed, using the desktop work area")
		return desktop, nil
	}
	monitor := nearestMonitor(monitors, p)
	if area, ok := intersect(desktop, monitor); ok {
		return area, nil
	}
	return monitor, nil
}

// desktopArea returns the work area advertised by the window manager,
// or the whole display when none is advertised.
func (c *X11Cursor) desktopArea() (motion.WorkArea, error) {
	if c.xprop {
		out, err := c.run(c.ctx, "xprop", "-root", "-notype", "_NET_WORKAREA")
		if err == nil {
			if area, perr := parseWorkArea(out); perr == nil {
				return area, nil
			}
		}
		c.log.Debug().Err(err).Msg("No _NET_WORKAREA, falling back to display geometry")
	}

	out, err := c.run(c.ctx, "xdotool", "getdisplaygeometry")
	if err != nil {
		return motion.WorkArea{}, err
	}
	return parseDisplayGeometry(out)
}

// Close aborts helper processes still running and releases the input
// backend.
func (c *X11Cursor) Close() error {
	c.cancel()
	return c.mover.Close()
}

// parseMouseLocation reads `xdotool getmouselocation --shell` output.
func parseMouseLocation(out string) (motion.Point, error) {
	var p motion.Point
	var gotX, gotY bool
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		switch key {
		case "X":
			p.X, gotX = n, true
		case "Y":
			p.Y, gotY = n, true
		}
	}
	if !gotX || !gotY {
		return motion.Point{}, fmt.Errorf("unexpected xdotool output %q", out)
	}
	return p, nil
}

// parseWorkArea reads `xprop -root -notype _NET_WORKAREA`. The property
// holds x, y, width, height per virtual desktop; the first one is used.
func parseWorkArea(out string) (motion.WorkArea, error) {
	_, values, ok := strings.Cut(out, "=")
	if !ok {
		return motion.WorkArea{}, fmt.Errorf("unexpected xprop output %q", out)
	}
	fields := strings.Split(values, ",")
	if len(fields) < 4 {
		return motion.WorkArea{}, fmt.Errorf("unexpected xprop output %q", out)
	}
	var n [4]int
	for i := range n {
		v, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return motion.WorkArea{}, fmt.Errorf("unexpected xprop output %q", out)
		}
		n[i] = v
	}
	return motion.WorkArea{Left: n[0], Top: n[1], Right: n[0] + n[2], Bottom: n[1] + n[3]}, nil
}

// parseDisplayGeometry reads `xdotool getdisplaygeometry`.
func parseDisplayGeometry(out string) (motion.WorkArea, error) {
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return motion.WorkArea{}, fmt.Errorf("unexpected xdotool output %q", out)
	}
	w, errW := strconv.Atoi(fields[0])
	h, errH := strconv.Atoi(fields[1])
	if errW != nil || errH != nil {
		return motion.WorkArea{}, fmt.Errorf("unexpected xdotool output %q", out)
	}
	return motion.WorkArea{Right: w, Bottom: h}, nil
}

// parseMonitors reads `xrandr --listactivemonitors`, where each monitor
// line carries its geometry as W/mmW x H/mmH +X+Y.
func parseMonitors(out string) ([]motion.WorkArea, error) {
	var monitors []motion.WorkArea
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || !strings.HasSuffix(fields[0], ":") {
			continue
		}
		area, err := parseMonitorGeometry(fields[2])
		if err != nil {
			return nil, err
		}
		monitors = append(monitors, area)
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors in xrandr output %q", out)
	}
	return monitors, nil
}

func parseMonitorGeometry(geom string) (motion.WorkArea, error) {
	size, offset, ok := strings.Cut(geom, "+")
	width, height, ok2 := strings.Cut(size, "x")
	offX, offY, ok3 := strings.Cut(offset, "+")
	if !ok || !ok2 || !ok3 {
		return motion.WorkArea{}, fmt.Errorf("unexpected monitor geometry %q", geom)
	}
	width, _, _ = strings.Cut(width, "/")
	height, _, _ = strings.Cut(height, "/")

	var n [4]int
	for i, s := range []string{width, height, offX, offY} {
		v, err := strconv.Atoi(s)
		if err != nil {
			return motion.WorkArea{}, fmt.Errorf("unexpected monitor geometry %q", geom)
		}
		n[i] = v
	}
	return motion.WorkArea{Left: n[2], Top: n[3], Right: n[2] + n[0], Bottom: n[3] + n[1]}, nil
}

// nearestMonitor returns the monitor containing p, or the one closest
// to it when p lies in a gap between monitors.
func nearestMonitor(monitors []motion.WorkArea, p motion.Point) motion.WorkArea {
	best, bestDist := monitors[0], -1
	for _, m := range monitors {
		dx := max(m.Left-p.X, 0, p.X-(m.Right-1))
		dy := max(m.Top-p.Y, 0, p.Y-(m.Bottom-1))
		if d := dx*dx + dy*dy; bestDist < 0 || d < bestDist {
			best, bestDist = m, d
		}
	}
	return best
}

func intersect(a, b motion.WorkArea) (motion.WorkArea, bool) {
	r := motion.WorkArea{
		Left:   max(a.Left, b.Left),
		Top:    max(a.Top, b.Top),
		Right:  min(a.Right, b.Right),
		Bottom: min(a.Bottom, b.Bottom),
	}
	return r, r.Left < r.Right && r.Top < r.Bottom
}
