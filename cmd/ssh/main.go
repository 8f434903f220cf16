package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/blaster/internal/config"
	"github.com/tomz197/blaster/internal/draw"
	"github.com/tomz197/blaster/internal/economy"
	"github.com/tomz197/blaster/internal/loop/client"
	"github.com/tomz197/blaster/internal/loop/server"
	"github.com/tomz197/blaster/internal/storage"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, closer, err := cfg.OpenLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := run(cfg, logger); err != nil {
		logger.Error("ssh server stopped", "err", err)
		closer.Close()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *log.Logger) error {
	games := &gameHandler{
		kv:     storage.NewFileKV(cfg.SaveDir),
		cfg:    cfg,
		logger: logger,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)),
		wish.WithMiddleware(
			games.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.SSH.HostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKey))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create ssh server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting ssh server", "addr", s.Addr, "saveDir", cfg.SaveDir)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down ssh server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// gameHandler gives every SSH session its own simulation, saved under the
// SSH user name.
type gameHandler struct {
	kv     storage.KV
	cfg    config.Config
	logger *log.Logger
}

func (h *gameHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := h.logger.With("user", sess.User())
		logger.Info("game session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		if err := h.play(sess, sizeTracker, logger); err != nil {
			logger.Warn("game error", "err", err)
		}
		logger.Info("session ended")
		next(sess)
	}
}

func (h *gameHandler) play(sess ssh.Session, size *sizeTracker, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(sess.Context())
	defer cancel()

	key, err := economy.PlayerKey(sess.User())
	if err != nil {
		wish.Errorln(sess, "Pick a user name of letters, digits, '-' or '_' (at most 32).")
		return err
	}
	eco := economy.New(ctx, economy.NewKVStore(h.kv, key), logger)
	defer flushEconomy(eco, logger)
	srv := server.NewServer(eco, h.cfg.GameOptions(logger))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		c := client.NewClient(srv, bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: size.getSize,
			Logger:       logger,
		})
		return c.Run(ctx)
	})
	return g.Wait()
}

// flushEconomy waits for the last save of a session to be written.
func flushEconomy(eco *economy.Economy, logger *log.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := eco.Close(ctx); err != nil {
		logger.Warn("save data not flushed", "err", err)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
