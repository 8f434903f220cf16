package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/tomz197/blaster/internal/config"
	"github.com/tomz197/blaster/internal/economy"
	"github.com/tomz197/blaster/internal/loop/client"
	"github.com/tomz197/blaster/internal/loop/server"
	"github.com/tomz197/blaster/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	// The terminal is the game screen, so logs go to LOG_FILE or nowhere.
	logger, closer, err := cfg.OpenLogger(true)
	if err != nil {
		return err
	}
	defer closer.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	kv := storage.NewFileKV(cfg.SaveDir)
	eco := economy.New(ctx, economy.NewKVStore(kv, ""), logger)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := eco.Close(flushCtx); err != nil {
			logger.Warn("save data not flushed", "err", err)
		}
	}()
	srv := server.NewServer(eco, cfg.GameOptions(logger))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		c := client.NewClient(srv, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{Logger: logger})
		return c.Run(ctx)
	})
	return g.Wait()
}
