// Package web serves the game to browsers: an embedded canvas page plus a
// websocket that carries input events in and snapshots out.
package web

import (
	"context"
	_ "embed"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/blaster/internal/economy"
	"github.com/tomz197/blaster/internal/loop/server"
	"github.com/tomz197/blaster/internal/storage"
)

//go:embed static/index.html
var indexPage string

// snapshotInterval paces snapshot pushes. Snapshots only change on a tick or
// an input, so pushing faster than the tick gains nothing.
const snapshotInterval = 16 * time.Millisecond

// flushTimeout bounds the final save when a connection ends.
const flushTimeout = 5 * time.Second

// Options configures a Handler.
type Options struct {
	Game           server.Options
	Logger         *log.Logger
	SSHHint        string   // Shown on the page as an alternative way to play
	OriginPatterns []string // Extra origins allowed to open the websocket
}

// Handler serves the page and one game session per websocket.
type Handler struct {
	kv     storage.KV
	opts   Options
	logger *log.Logger
	mux    *http.ServeMux
}

// NewHandler creates a handler whose sessions persist through kv.
func NewHandler(kv storage.KV, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Handler{kv: kv, opts: opts, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /{$}", h.serveIndex)
	h.mux.HandleFunc("GET /ws", h.serveWS)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, strings.ReplaceAll(indexPage, "{{.SSHHint}}", h.opts.SSHHint))
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	key, err := economy.PlayerKey(player)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.opts.OriginPatterns,
	})
	if err != nil {
		h.logger.Error("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()

	logger := h.logger.With("player", player, "remote", r.RemoteAddr)

	ctx := r.Context()
	eco := economy.New(ctx, economy.NewKVStore(h.kv, key), logger)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := eco.Close(flushCtx); err != nil {
			logger.Warn("save data not flushed", "err", err)
		}
	}()
	gameOpts := h.opts.Game
	gameOpts.Logger = logger
	srv := server.NewServer(eco, gameOpts)

	err = runSession(ctx, conn, srv)
	switch status := websocket.CloseStatus(err); {
	case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
		logger.Info("player left", "session", srv.ID())
		conn.Close(websocket.StatusNormalClosure, "")
	case errors.Is(err, context.Canceled):
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	default:
		logger.Warn("session closed", "session", srv.ID(), "err", err)
		conn.Close(websocket.StatusInternalError, "")
	}
}

// runSession runs the simulation, the input reader and the snapshot writer
// until one of them fails.
func runSession(ctx context.Context, conn *websocket.Conn, srv *server.Server) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Run(ctx); err != nil {
			return err
		}
		return ctx.Err()
	})

	g.Go(func() error {
		for {
			var ev server.Event
			if err := wsjson.Read(ctx, conn, &ev); err != nil {
				return err
			}
			srv.SendInput(ev)
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(snapshotInterval)
		defer ticker.Stop()

		var last *server.Snapshot
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
			snap := srv.GetSnapshot()
			if snap == last {
				continue
			}
			if err := wsjson.Write(ctx, conn, snap); err != nil {
				return err
			}
			last = snap
		}
	})

	return g.Wait()
}
