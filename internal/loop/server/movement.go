package server

import (
	"github.com/tomz197/blaster/internal/loop/config"
	"github.com/tomz197/blaster/internal/object"
)

// integrate advances every dynamic entity by one tick and drops the ones that
// left the field or expired.
func integrate(s *Session, f object.Field) {
	enemies := s.Enemies[:0] // reuse backing array
	for _, e := range s.Enemies {
		if !e.Step(f) {
			enemies = append(enemies, e)
		}
	}
	s.Enemies = enemies

	bullets := s.Bullets[:0]
	for _, b := range s.Bullets {
		if !b.Step(config.BulletSpeed) {
			bullets = append(bullets, b)
		}
	}
	s.Bullets = bullets

	particles := s.Particles[:0]
	for _, p := range s.Particles {
		if !p.Step() {
			particles = append(particles, p)
		}
	}
	s.Particles = particles
}
