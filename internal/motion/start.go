package motion

// ResolveStart moves current away from the work area edges so that a
// figure of the given diameter drawn around it stays on screen.
func ResolveStart(current Point, area WorkArea, diameter int) Point {
	return Point{
		X: clampAxis(current.X, area.Left, area.Right, diameter),
		Y: clampAxis(current.Y, area.Top, area.Bottom, diameter),
	}
}

func clampAxis(v, low, high, margin int) int {
	switch {
	case low > v-margin:
		return low + margin
	case high < v+margin:
		return high - margin
	default:
		return v
	}
}
