package object

// Rand is the random source entities are created from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Particle is a short-lived visual effect. It has no gameplay interaction.
type Particle struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
	Life int     `json:"life"` // Ticks remaining
}

// Step moves the particle and burns one tick of lifetime.
// Returns true once the lifetime is used up.
func (p *Particle) Step() (gone bool) {
	p.X += p.VX
	p.Y += p.VY
	p.Life--
	return p.Life <= 0
}

// Burst appends count particles at (x, y) to dst. Each velocity component is
// drawn independently from [-speed, speed).
func Burst(dst []Particle, rng Rand, x, y float64, count int, speed float64, life int) []Particle {
	for i := 0; i < count; i++ {
		dst = append(dst, Particle{
			X:    x,
			Y:    y,
			VX:   (rng.Float64()*2 - 1) * speed,
			VY:   (rng.Float64()*2 - 1) * speed,
			Life: life,
		})
	}
	return dst
}
