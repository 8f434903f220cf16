package object

// Bullet is a shot fired by the player. It flies straight up.
type Bullet struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Step moves the bullet up by speed. Returns true once it has left the top of
// the field.
func (b *Bullet) Step(speed float64) (gone bool) {
	b.Y -= speed
	return b.Y <= 0
}

// Volley returns the bullets of one fire intent: count shots fanned out to the
// right of the origin, spread units apart.
func Volley(x, y float64, count int, spread float64) []Bullet {
	if count <= 0 {
		return nil
	}
	bullets := make([]Bullet, count)
	for i := range bullets {
		bullets[i] = Bullet{X: x + float64(i)*spread, Y: y}
	}
	return bullets
}
