// Package config centralizes all tunable game parameters.
package config

import "time"

// Field dimensions - the play area in logical units.
// Rendering scales this to the terminal or browser canvas.
const (
	FieldWidth  = 360
	FieldHeight = 380
)

// Simulation cadence
const (
	TickInterval  = 30 * time.Millisecond  // One fixed simulation step
	SpawnInterval = 500 * time.Millisecond // One enemy per interval
)

// Scoring
const (
	ScorePerTick   = 1
	ScoreEnemyKill = 50
	ScoreBossKill  = 1000
	ScorePerLevel  = 500 // level = 1 + score/ScorePerLevel
	CoinsPerKill   = 1
)

// Player
const (
	InitialLives = 3
	PlayerStartX = 180
	PlayerStartY = 300
	PlayerSpeed  = 1.0
)

// Enemies
const (
	EnemyBaseSpeed   = 2.0 // speed = EnemyBaseSpeed + rand*level
	EnemySpawnMargin = 20  // Spawn x is in [0, FieldWidth-EnemySpawnMargin)
)

// Bullets
const (
	BulletSpeed  = 10.0 // Units per tick, upward
	BulletSpread = 4.0  // Lateral offset between bullets of one fire intent
)

// Boss
const (
	BossEveryLevels = 5
	BossBaseHP      = 100
	BossHPPerLevel  = 20
	BossX           = 150
	BossY           = 20
)

// Collision proximity (axis-aligned, per axis)
const (
	HitRangeBulletEnemy = 10.0
	HitRangeBulletBoss  = 20.0
	HitRangePlayerEnemy = 12.0
)

// Particles
const (
	BurstSize        = 12
	BurstSpeed       = 3.0 // Velocity components in [-BurstSpeed, BurstSpeed)
	ParticleLifetime = 20  // Ticks
)

// Economy
const (
	UpgradeCost     = 10
	DamageStep      = 2
	FireRateStep    = 1
	DefaultDamage   = 5
	DefaultFireRate = 1
	SaveKey         = "ultimate_save"
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 120 // Render area is clamped and centered beyond this
	MaxTermHeight         = 48
	AimStep               = 6.0 // Units the aim moves per client frame while a key is held
)
