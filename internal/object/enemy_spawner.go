package object

// EnemySpawner creates enemies along the top edge of the field.
type EnemySpawner struct {
	baseSpeed float64
	margin    float64
}

// NewEnemySpawner creates a spawner. Enemies get baseSpeed plus a random
// share of the level, and spawn at least margin units from the right edge.
func NewEnemySpawner(baseSpeed, margin float64) *EnemySpawner {
	if margin < 0 {
		margin = 0
	}
	return &EnemySpawner{
		baseSpeed: baseSpeed,
		margin:    margin,
	}
}

// Spawn returns a new enemy at y = 0 with a uniformly random x.
func (s *EnemySpawner) Spawn(rng Rand, f Field, level int) Enemy {
	width := f.Width - s.margin
	if width < 0 {
		width = 0
	}
	return Enemy{
		X:     rng.Float64() * width,
		Y:     0,
		Speed: s.baseSpeed + rng.Float64()*float64(level),
	}
}
