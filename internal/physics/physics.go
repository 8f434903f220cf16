// Package physics provides collision detection utilities.
package physics

import "math"

// Near reports whether two points are closer than r on both axes.
// This is a box test, not a circle test: the corners of the box count.
func Near(x1, y1, x2, y2, r float64) bool {
	return math.Abs(x1-x2) < r && math.Abs(y1-y2) < r
}
