package server

import (
	"github.com/tomz197/blaster/internal/loop/config"
	"github.com/tomz197/blaster/internal/object"
)

// spawnEnemy appends one enemy along the top edge. It runs on its own cadence,
// independent of the tick.
func spawnEnemy(s *Session, sp *object.EnemySpawner, rng object.Rand, f object.Field) {
	s.Enemies = append(s.Enemies, sp.Spawn(rng, f, s.Level))
}

// checkBossGate evaluates the boss spawn rule once per level change: on a
// multiple of config.BossEveryLevels a boss appears unless one is alive.
// The boss appears at the configured position clamped to f. Returns true if a
// boss was spawned.
func checkBossGate(s *Session, f object.Field) bool {
	if s.Level == s.gateLevel {
		return false
	}
	s.gateLevel = s.Level

	if s.Level%config.BossEveryLevels != 0 || s.Boss != nil {
		return false
	}
	x, y := f.Clamp(config.BossX, config.BossY)
	s.Boss = object.NewBoss(x, y, config.BossBaseHP+s.Level*config.BossHPPerLevel)
	return true
}
