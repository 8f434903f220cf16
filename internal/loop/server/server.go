// Package server runs the authoritative simulation of a single session.
//
// Game is the synchronous core. Server wraps it in a goroutine that owns the
// tick and spawn timers, applies queued input, and publishes snapshots for
// renderers to read without locks.
package server

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/blaster/internal/economy"
)

// GameServer is the interface clients use to talk to a session.
type GameServer interface {
	SendInput(ev Event)
	GetSnapshot() *Snapshot
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// Server drives one Game.
type Server struct {
	id       string
	game     *Game
	snapshot atomic.Pointer[Snapshot]
	inputCh  chan Event
	logger   *log.Logger

	tickEvery  time.Duration
	spawnEvery time.Duration
	tick       *time.Ticker // nil while the game is not active
	spawn      *time.Ticker
}

// NewServer creates a server for a new session.
func NewServer(eco *economy.Economy, opts Options) *Server {
	opts = opts.withDefaults()
	id := uuid.NewString()
	opts.Logger = opts.Logger.With("session", id[:8])

	s := &Server{
		id:         id,
		game:       NewGame(eco, opts),
		inputCh:    make(chan Event, 256),
		logger:     opts.Logger,
		tickEvery:  opts.TickInterval,
		spawnEvery: opts.SpawnInterval,
	}
	s.publish()
	return s
}

// ID returns the session id.
func (s *Server) ID() string { return s.id }

// Run processes input and timers until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("session started")
	defer s.stopTimers()

	for {
		tickC, spawnC := s.syncTimers()

		select {
		case <-ctx.Done():
			snap := s.GetSnapshot()
			s.logger.Info("session ended", "mode", snap.Mode, "score", snap.Score)
			return nil
		case ev := <-s.inputCh:
			s.game.Apply(ev)
		case <-tickC:
			s.game.Tick()
		case <-spawnC:
			s.game.SpawnEnemy()
		}

		s.publish()
	}
}

// syncTimers starts both tickers when the game becomes active and stops them
// when it leaves that state. Nil channels block forever in select.
func (s *Server) syncTimers() (tick, spawn <-chan time.Time) {
	active := s.game.Active()
	switch {
	case active && s.tick == nil:
		s.tick = time.NewTicker(s.tickEvery)
		s.spawn = time.NewTicker(s.spawnEvery)
	case !active && s.tick != nil:
		s.stopTimers()
	}

	if s.tick == nil {
		return nil, nil
	}
	return s.tick.C, s.spawn.C
}

func (s *Server) stopTimers() {
	if s.tick != nil {
		s.tick.Stop()
		s.tick = nil
	}
	if s.spawn != nil {
		s.spawn.Stop()
		s.spawn = nil
	}
}

func (s *Server) publish() {
	snap := s.game.Snapshot()
	snap.SessionID = s.id
	s.snapshot.Store(snap)
}

// SendInput queues an event. Drops it if the queue is full.
func (s *Server) SendInput(ev Event) {
	select {
	case s.inputCh <- ev:
	default:
		s.logger.Debug("input dropped", "type", ev.Kind)
	}
}

// GetSnapshot returns the latest published snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}
