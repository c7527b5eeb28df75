package platform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stigoleg/keepalive-motion/internal/motion"
)

// JavaScript for Automation snippets run through osascript on macOS.
// Each evaluates to a single line that osascript prints.

const jxaLocation = `
ObjC.import('CoreGraphics');
var p = $.CGEventGetLocation($.CGEventCreate(null));
`

func positionScript() string {
	return jxaLocation + `Math.round(p.x) + "," + Math.round(p.y);`
}

// Mouse-moved events are posted rather than warping, so applications
// see the cursor move as if a mouse did it.
func moveScript(dx, dy int) string {
	return jxaLocation + fmt.Sprintf(`
var e = $.CGEventCreateMouseEvent(null, $.kCGEventMouseMoved, {x: p.x + %d, y: p.y + %d}, $.kCGMouseButtonLeft);
$.CGEventPost($.kCGHIDEventTap, e);
"ok";`, dx, dy)
}

func relocateScript(to motion.Point) string {
	return fmt.Sprintf(`
ObjC.import('CoreGraphics');
var e = $.CGEventCreateMouseEvent(null, $.kCGEventMouseMoved, {x: %d, y: %d}, $.kCGMouseButtonLeft);
$.CGEventPost($.kCGHIDEventTap, e);
"ok";`, to.X, to.Y)
}

// workAreaScript picks the screen nearest to the point and converts its
// visible frame from Cocoa coordinates (origin bottom left of the main
// screen) to global display coordinates (origin top left).
func workAreaScript(near motion.Point) string {
	return fmt.Sprintf(`
ObjC.import('AppKit');
var px = %d, py = %d;
var screens = $.NSScreen.screens;
var H = screens.objectAtIndex(0).frame.size.height;
var best = null, bestDist = Infinity;
for (var i = 0; i < screens.count; i++) {
	var s = screens.objectAtIndex(i);
	var f = s.frame;
	var l = f.origin.x, t = H - (f.origin.y + f.size.height);
	var r = l + f.size.width, b = t + f.size.height;
	var dx = Math.max(l - px, 0, px - r), dy = Math.max(t - py, 0, py - b);
	if (dx * dx + dy * dy < bestDist) { bestDist = dx * dx + dy * dy; best = s; }
}
var v = best.visibleFrame;
var vt = H - (v.origin.y + v.size.height);
[Math.round(v.origin.x), Math.round(vt), Math.round(v.origin.x + v.size.width), Math.round(vt + v.size.height)].join(",");`,
		near.X, near.Y)
}

// parseInts reads n comma separated integers.
func parseInts(out string, n int) ([]int, error) {
	fields := strings.Split(strings.TrimSpace(out), ",")
	if len(fields) != n {
		return nil, fmt.Errorf("unexpected osascript output %q", out)
	}
	values := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("unexpected osascript output %q", out)
		}
		values[i] = v
	}
	return values, nil
}
