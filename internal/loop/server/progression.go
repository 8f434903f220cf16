package server

import (
	"github.com/tomz197/blaster/internal/loop/config"
	"github.com/tomz197/blaster/internal/object"
)

// ScoreRecorder persists the best score of a finished run.
type ScoreRecorder interface {
	RecordScore(score int) bool
}

// outcome reports what progression changed this tick.
type outcome struct {
	bossDefeated bool
	gameOver     bool
	newHigh      bool
}

// progress awards the survival point, derives the level from the score,
// settles a defeated boss and ends the run when lives are gone.
//
// A boss defeat raises the level one above the score-derived value. The next
// tick's derivation replaces it.
func progress(s *Session, r ScoreRecorder, rng object.Rand) outcome {
	var o outcome

	if s.Lives > 0 {
		s.Score += config.ScorePerTick
	}
	s.Level = LevelFor(s.Score)

	if s.Boss != nil && s.Boss.Defeated() {
		s.Particles = burst(s.Particles, rng, s.Boss.X, s.Boss.Y)
		s.Boss = nil
		s.Score += config.ScoreBossKill
		s.Level = LevelFor(s.Score) + 1
		o.bossDefeated = true
	}

	if s.Lives <= 0 {
		o.newHigh = r.RecordScore(s.Score)
		s.Mode = ModeGameOver
		o.gameOver = true
	}
	return o
}
