package server

import (
	"slices"

	"github.com/tomz197/blaster/internal/economy"
	"github.com/tomz197/blaster/internal/object"
)

// Snapshot is an immutable copy of a session handed to renderers.
// Nothing in it aliases the live session.
type Snapshot struct {
	SessionID string `json:"sessionId,omitempty"`
	Frame     uint64 `json:"frame"`
	Mode      Mode   `json:"mode"`
	Paused    bool   `json:"paused"`
	Score     int    `json:"score"`
	Level     int    `json:"level"`
	Lives     int    `json:"lives"`

	HighScore int `json:"highScore"`
	Coins     int `json:"coins"`
	Damage    int `json:"damage"`
	FireRate  int `json:"fireRate"`

	Field     object.Field      `json:"field"`
	Player    object.Player     `json:"player"`
	Enemies   []object.Enemy    `json:"enemies"`
	Bullets   []object.Bullet   `json:"bullets"`
	Particles []object.Particle `json:"particles"`
	Boss      *object.Boss      `json:"boss,omitempty"`
}

func newSnapshot(s *Session, f object.Field, save economy.SaveData) *Snapshot {
	snap := &Snapshot{
		Frame:     s.Frame,
		Mode:      s.Mode,
		Paused:    s.Paused,
		Score:     s.Score,
		Level:     s.Level,
		Lives:     s.Lives,
		HighScore: save.HighScore,
		Coins:     save.Coins,
		Damage:    save.Damage,
		FireRate:  save.FireRate,
		Field:     f,
		Player:    s.Player,
		Enemies:   slices.Clone(s.Enemies),
		Bullets:   slices.Clone(s.Bullets),
		Particles: slices.Clone(s.Particles),
	}
	if s.Boss != nil {
		b := *s.Boss
		snap.Boss = &b
	}
	return snap
}
