package server

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/blaster/internal/economy"
	"github.com/tomz197/blaster/internal/loop/config"
	"github.com/tomz197/blaster/internal/object"
)

// Options configures a Game. Zero values fall back to the defaults in the
// config package.
type Options struct {
	Field         object.Field
	TickInterval  time.Duration
	SpawnInterval time.Duration
	Rand          *rand.Rand
	Logger        *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Field.Width <= 0 || o.Field.Height <= 0 {
		o.Field = object.Field{Width: config.FieldWidth, Height: config.FieldHeight}
	}
	if o.TickInterval <= 0 {
		o.TickInterval = config.TickInterval
	}
	if o.SpawnInterval <= 0 {
		o.SpawnInterval = config.SpawnInterval
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Game is the synchronous simulation of one session. It is not safe for
// concurrent use; Server serializes access to it.
type Game struct {
	field   object.Field
	state   *Session
	economy *economy.Economy
	spawner *object.EnemySpawner
	rng     *rand.Rand
	logger  *log.Logger
}

// NewGame creates a game on the menu screen backed by the given economy.
func NewGame(eco *economy.Economy, opts Options) *Game {
	opts = opts.withDefaults()
	return &Game{
		field:   opts.Field,
		state:   NewSession(opts.Field),
		economy: eco,
		spawner: object.NewEnemySpawner(config.EnemyBaseSpeed, config.EnemySpawnMargin),
		rng:     opts.Rand,
		logger:  opts.Logger,
	}
}

// Mode returns the current screen.
func (g *Game) Mode() Mode { return g.state.Mode }

// Active reports whether ticks and spawns have any effect.
func (g *Game) Active() bool { return g.state.Active() }

// Start begins a new run from any screen.
func (g *Game) Start() {
	g.state.Reset(g.field)
	g.state.Mode = ModePlaying
	g.logger.Info("run started", "damage", g.economy.Damage(), "fireRate", g.economy.FireRate())
}

// TogglePause flips the pause flag. Nothing else changes.
func (g *Game) TogglePause() {
	g.state.Paused = !g.state.Paused
	g.logger.Debug("pause toggled", "paused", g.state.Paused)
}

// Aim moves the player to (x, y), clamped to the field. Ignored unless the
// game is active.
func (g *Game) Aim(x, y float64) bool {
	if !g.state.Active() {
		return false
	}
	g.state.Player.X, g.state.Player.Y = g.field.Clamp(x, y)
	return true
}

// Fire spawns one volley of FireRate bullets at the player. Returns the
// number of bullets added.
func (g *Game) Fire() int {
	if !g.state.Active() {
		return 0
	}
	p := g.state.Player
	volley := object.Volley(p.X, p.Y, g.economy.FireRate(), config.BulletSpread)
	g.state.Bullets = append(g.state.Bullets, volley...)
	return len(volley)
}

// OpenShop switches from the menu to the shop.
func (g *Game) OpenShop() bool {
	if g.state.Mode != ModeMenu {
		return false
	}
	g.state.Mode = ModeShop
	return true
}

// OpenMenu returns to the menu from the shop or the game over screen.
func (g *Game) OpenMenu() bool {
	switch g.state.Mode {
	case ModeShop, ModeGameOver:
		g.state.Mode = ModeMenu
		return true
	}
	return false
}

// Purchase buys one upgrade.
func (g *Game) Purchase(kind economy.Upgrade) bool {
	ok := g.economy.Purchase(kind)
	g.logger.Debug("purchase", "upgrade", kind, "ok", ok)
	return ok
}

// SpawnEnemy adds one enemy. Ignored unless the game is active.
func (g *Game) SpawnEnemy() bool {
	if !g.state.Active() {
		return false
	}
	spawnEnemy(g.state, g.spawner, g.rng, g.field)
	return true
}

// Tick advances the simulation by one fixed step: boss gate, movement,
// collisions, progression. Returns false without touching anything unless
// the game is active.
func (g *Game) Tick() bool {
	s := g.state
	if !s.Active() {
		return false
	}
	s.Frame++

	if checkBossGate(s, g.field) {
		g.logger.Info("boss spawned", "level", s.Level, "hp", s.Boss.HP)
	}

	integrate(s, g.field)

	if h := resolveCollisions(s, g.economy, g.rng); h.livesLost > 0 {
		g.logger.Debug("player hit", "lives", s.Lives)
	}

	o := progress(s, g.economy, g.rng)
	if o.bossDefeated {
		g.logger.Info("boss defeated", "score", s.Score, "level", s.Level)
	}
	if o.gameOver {
		g.logger.Info("game over", "score", s.Score, "level", s.Level, "highScore", o.newHigh)
	}
	return true
}

// Apply dispatches one input event.
func (g *Game) Apply(ev Event) {
	switch ev.Kind {
	case EventAim:
		g.Aim(ev.X, ev.Y)
	case EventFire:
		g.Fire()
	case EventPause:
		g.TogglePause()
	case EventStart:
		g.Start()
	case EventShop:
		g.OpenShop()
	case EventMenu:
		g.OpenMenu()
	case EventPurchase:
		kind, ok := economy.ParseUpgrade(string(ev.Upgrade))
		if !ok {
			g.logger.Warn("unknown upgrade", "upgrade", ev.Upgrade)
			return
		}
		g.Purchase(kind)
	default:
		g.logger.Warn("unknown event", "type", ev.Kind)
	}
}

// Snapshot returns a deep copy of the session plus the persistent record.
func (g *Game) Snapshot() *Snapshot {
	return newSnapshot(g.state, g.field, g.economy.Data())
}
