// Package economy tracks coins, high score and purchased upgrades, and writes
// every change through to a Store from a background writer.
package economy

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/blaster/internal/loop/config"
)

// saveTimeout bounds a single write to the store.
const saveTimeout = 2 * time.Second

// Upgrade names a purchasable stat.
type Upgrade string

const (
	UpgradeDamage   Upgrade = "damage"
	UpgradeFireRate Upgrade = "fireRate"
)

// ParseUpgrade maps a user supplied name to an Upgrade. Matching ignores case
// and separators, so "fire-rate" and "firerate" both select UpgradeFireRate.
func ParseUpgrade(s string) (Upgrade, bool) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	switch norm {
	case "damage":
		return UpgradeDamage, true
	case "firerate":
		return UpgradeFireRate, true
	}
	return "", false
}

// Economy is the in-memory copy of the persisted record. It is safe for
// concurrent use. Mutations never wait on the store: the latest record is
// handed to a writer goroutine, and records it has not picked up yet are
// replaced rather than queued.
type Economy struct {
	mu     sync.Mutex
	data   SaveData
	store  Store
	logger *log.Logger

	pending   chan SaveData // Latest unsaved record, capacity 1
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New loads the record once from store and starts the writer. Missing or
// unreadable data falls back to Defaults; the failure is logged and never
// returned. Call Close to flush the last record and stop the writer.
func New(ctx context.Context, store Store, logger *log.Logger) *Economy {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	data, err := store.Load(ctx)
	if err != nil {
		logger.Warn("save data unavailable, using defaults", "err", err)
		data = Defaults()
	}
	e := &Economy{
		data:    data.Sanitize(),
		store:   store,
		logger:  logger,
		pending: make(chan SaveData, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go e.writeLoop()
	return e
}

// Close stops the writer after it has saved the most recent record. It
// returns ctx.Err() if ctx ends first; the writer then finishes on its own.
// Changes made after Close are kept in memory only.
func (e *Economy) Close(ctx context.Context) error {
	e.closeOnce.Do(func() { close(e.quit) })
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Data returns a copy of the current record.
func (e *Economy) Data() SaveData {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.data
}

// Damage returns the damage a bullet deals to a boss.
func (e *Economy) Damage() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.data.Damage
}

// FireRate returns the number of bullets per fire intent.
func (e *Economy) FireRate() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.data.FireRate
}

// AddCoins credits n coins. Non-positive amounts are ignored.
func (e *Economy) AddCoins(n int) {
	if n <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.Coins += n
	e.persistLocked()
}

// RecordScore raises the high score to score if it beats it.
// Returns true if the high score changed.
func (e *Economy) RecordScore(score int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if score <= e.data.HighScore {
		return false
	}
	e.data.HighScore = score
	e.persistLocked()
	return true
}

// Purchase buys one level of the named upgrade. It is a no-op returning false
// when fewer than config.UpgradeCost coins are available or kind is unknown.
func (e *Economy) Purchase(kind Upgrade) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.data.Coins < config.UpgradeCost {
		return false
	}
	switch kind {
	case UpgradeDamage:
		e.data.Damage += config.DamageStep
	case UpgradeFireRate:
		e.data.FireRate += config.FireRateStep
	default:
		return false
	}
	e.data.Coins -= config.UpgradeCost
	e.persistLocked()
	return true
}

// persistLocked hands the current record to the writer, replacing one it has
// not picked up yet. Only holders of mu send, so the send after a drain
// cannot block.
func (e *Economy) persistLocked() {
	select {
	case e.pending <- e.data:
		return
	default:
	}
	select {
	case <-e.pending:
	default:
	}
	e.pending <- e.data
}

func (e *Economy) writeLoop() {
	defer close(e.done)
	for {
		select {
		case data := <-e.pending:
			e.save(data)
		case <-e.quit:
			select {
			case data := <-e.pending:
				e.save(data)
			default:
			}
			return
		}
	}
}

// save writes one record. Failures are logged; the in-memory record stays
// authoritative and the next write resynchronizes.
func (e *Economy) save(data SaveData) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := e.store.Save(ctx, data); err != nil {
		e.logger.Warn("save failed", "err", err)
	}
}
