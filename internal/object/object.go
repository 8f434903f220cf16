// Package object defines the entities that live on the play field.
//
// Entities are plain values. The loop server owns the collections holding them
// and hands copies to renderers through snapshots.
package object

import "math"

// Field is the rectangular play area. The origin is the top-left corner and
// y grows downward.
type Field struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Clamp limits x and y to the field bounds.
func (f Field) Clamp(x, y float64) (float64, float64) {
	return clamp(x, 0, f.Width), clamp(y, 0, f.Height)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Player is the avatar steered by aim events.
type Player struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Speed float64 `json:"speed"`
}

// NewPlayer creates a player at the given position.
func NewPlayer(x, y, speed float64) Player {
	return Player{X: x, Y: y, Speed: speed}
}

// Enemy descends the field at a constant speed.
type Enemy struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Speed float64 `json:"speed"`
}

// Step moves the enemy down by its speed. Returns true once it has left the
// bottom of the field.
func (e *Enemy) Step(f Field) (gone bool) {
	e.Y += e.Speed
	return e.Y >= f.Height
}

// Boss is the singleton high hit point enemy of a boss encounter.
type Boss struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	HP int     `json:"hp"`
}

// NewBoss creates a boss at the given position.
func NewBoss(x, y float64, hp int) *Boss {
	return &Boss{X: x, Y: y, HP: hp}
}

// Defeated reports whether the boss has run out of hit points.
func (b *Boss) Defeated() bool {
	return b.HP <= 0
}
