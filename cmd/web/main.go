package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomz197/blaster/internal/config"
	"github.com/tomz197/blaster/internal/loop/web"
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

	handler := web.NewHandler(storage.NewFileKV(cfg.SaveDir), web.Options{
		Game:    cfg.GameOptions(logger),
		Logger:  logger,
		SSHHint: "Or in a terminal: ssh -p " + cfg.SSH.Port + " " + config.GetEnv("SSH_DISPLAY_HOST", "localhost"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Sessions hang off ctx so a shutdown closes open websockets.
	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Web.Host, cfg.Web.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	g.Go(func() error {
		logger.Info("starting web server", "addr", "http://"+srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("web server stopped", "err", err)
		closer.Close()
		os.Exit(1)
	}
}
