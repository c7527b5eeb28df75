package motion

import (
	"fmt"
	"math"
)

// Point is a screen coordinate in pixels.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// WorkArea is the usable rectangle of the monitor containing a point,
// excluding taskbars and docks.
type WorkArea struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

func (w WorkArea) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", w.Left, w.Top, w.Right, w.Bottom)
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return math.Pi * degrees / 180
}

// PointOnCircle returns the coordinate at the given angle on the circle
// around center. Angles grow clockwise on screen since y points down.
func PointOnCircle(center Point, radius, degrees float64) (x, y float64) {
	sin, cos := math.Sincos(Radians(degrees))
	return float64(center.X) + radius*cos, float64(center.Y) + radius*sin
}

// moveDelta is the whole-pixel move from current towards (x, y),
// rounded toward negative infinity.
func moveDelta(x, y float64, current Point) (dx, dy int) {
	return floorInt(x - float64(current.X)), floorInt(y - float64(current.Y))
}

// floorInt maps NaN and infinities to zero so degenerate geometry
// never turns into a move.
func floorInt(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Floor(v))
}

func absSum(values ...int) int {
	sum := 0
	for _, v := range values {
		if v < 0 {
			v = -v
		}
		sum += v
	}
	return sum
}

// travelled reports whether the cursor is anywhere other than from.
func travelled(from, to Point) bool {
	return absSum(from.X-to.X, from.Y-to.Y) > 0
}
