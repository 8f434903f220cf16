package server

import (
	"fmt"

	"github.com/tomz197/blaster/internal/loop/config"
	"github.com/tomz197/blaster/internal/object"
)

// Mode is the screen the session is on.
type Mode int

const (
	ModeMenu     Mode = iota // Title screen
	ModePlaying              // Active gameplay
	ModeShop                 // Upgrade shop
	ModeGameOver             // Out of lives
)

var modeNames = [...]string{
	ModeMenu:     "menu",
	ModePlaying:  "playing",
	ModeShop:     "shop",
	ModeGameOver: "gameover",
}

// String returns the lowercase mode name.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// MarshalText encodes the mode as its name, so snapshots carry "playing"
// rather than 1.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Session holds the entity store and game state of one player's session.
// It is owned by a single Game and only touched from the goroutine driving it.
type Session struct {
	Mode   Mode
	Paused bool
	Score  int
	Level  int
	Lives  int
	Frame  uint64 // Simulated ticks since Start

	Player    object.Player
	Enemies   []object.Enemy
	Bullets   []object.Bullet
	Particles []object.Particle
	Boss      *object.Boss

	gateLevel int // Level the boss gate last evaluated
}

// NewSession creates a session on the menu screen of field f.
func NewSession(f object.Field) *Session {
	s := &Session{Mode: ModeMenu}
	s.Reset(f)
	return s
}

// Reset clears all transient entities and restores the starting score,
// level and lives. The player starts at the configured position, pulled
// inside f when the field is smaller. Mode is left alone.
func (s *Session) Reset(f object.Field) {
	s.Enemies = s.Enemies[:0]
	s.Bullets = s.Bullets[:0]
	s.Particles = s.Particles[:0]
	s.Boss = nil
	s.Score = 0
	s.Level = LevelFor(0)
	s.Lives = config.InitialLives
	s.Frame = 0
	s.Paused = false
	x, y := f.Clamp(config.PlayerStartX, config.PlayerStartY)
	s.Player = object.NewPlayer(x, y, config.PlayerSpeed)
	s.gateLevel = s.Level
}

// Active reports whether the simulation advances: playing and not paused.
func (s *Session) Active() bool {
	return s.Mode == ModePlaying && !s.Paused
}

// LevelFor returns the level a score corresponds to.
func LevelFor(score int) int {
	if score < 0 {
		score = 0
	}
	return 1 + score/config.ScorePerLevel
}
