package server

import (
	"slices"

	"github.com/tomz197/blaster/internal/loop/config"
	"github.com/tomz197/blaster/internal/object"
	"github.com/tomz197/blaster/internal/physics"
)

// Wallet is the slice of the economy collision resolution needs.
type Wallet interface {
	Damage() int
	AddCoins(n int)
}

// hits summarizes one collision pass.
type hits struct {
	kills     int // Enemies destroyed by bullets
	bossHits  int
	livesLost int
}

// resolveCollisions runs the three proximity checks in order: bullets against
// enemies, bullets against the boss, then the player against enemies.
//
// A bullet destroys at most one enemy, the first in store order within range,
// and a bullet spent on an enemy cannot also hit the boss.
func resolveCollisions(s *Session, w Wallet, rng object.Rand) hits {
	var h hits
	damage := w.Damage()

	bullets := s.Bullets[:0]
	for _, b := range s.Bullets {
		if i := firstEnemyNear(s.Enemies, b.X, b.Y, config.HitRangeBulletEnemy); i >= 0 {
			e := s.Enemies[i]
			s.Particles = burst(s.Particles, rng, e.X, e.Y)
			s.Enemies = slices.Delete(s.Enemies, i, i+1)
			s.Score += config.ScoreEnemyKill
			w.AddCoins(config.CoinsPerKill)
			h.kills++
			continue
		}
		if s.Boss != nil && physics.Near(b.X, b.Y, s.Boss.X, s.Boss.Y, config.HitRangeBulletBoss) {
			s.Particles = burst(s.Particles, rng, s.Boss.X, s.Boss.Y)
			s.Boss.HP -= damage
			h.bossHits++
			continue
		}
		bullets = append(bullets, b)
	}
	s.Bullets = bullets

	enemies := s.Enemies[:0]
	for _, e := range s.Enemies {
		if physics.Near(s.Player.X, s.Player.Y, e.X, e.Y, config.HitRangePlayerEnemy) {
			s.Lives--
			h.livesLost++
			continue
		}
		enemies = append(enemies, e)
	}
	s.Enemies = enemies

	return h
}

func firstEnemyNear(enemies []object.Enemy, x, y, r float64) int {
	for i, e := range enemies {
		if physics.Near(x, y, e.X, e.Y, r) {
			return i
		}
	}
	return -1
}

func burst(dst []object.Particle, rng object.Rand, x, y float64) []object.Particle {
	return object.Burst(dst, rng, x, y, config.BurstSize, config.BurstSpeed, config.ParticleLifetime)
}
