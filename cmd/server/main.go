package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/seating-lobby/internal/config"
	"github.com/DoyleJ11/seating-lobby/internal/httpapi"
	"github.com/DoyleJ11/seating-lobby/internal/hub"
	"github.com/DoyleJ11/seating-lobby/internal/journal"
	"github.com/DoyleJ11/seating-lobby/internal/lobby"
	"github.com/DoyleJ11/seating-lobby/internal/logging"
	"github.com/DoyleJ11/seating-lobby/internal/registry"
	"github.com/DoyleJ11/seating-lobby/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg config.Config, logger *zap.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var j journal.Journal = journal.Nop{}
	if cfg.DatabaseURL != "" {
		pg, err := journal.Open(cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		j = pg
		logger.Info("seat journal enabled")
	}
	defer func() { err = multierr.Append(err, j.Close()) }()

	reg := registry.New(logger)
	h := hub.NewHub(ctx, lobby.Deps{Sender: reg, Journal: j, Logger: logger})

	opts := ws.DefaultOptions()
	opts.PingInterval = cfg.PingInterval
	opts.IdleTimeout = cfg.IdleTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	opts.MaxFrameSize = cfg.MaxFrameSize
	opts.OutboxSize = cfg.OutboxSize
	opts.ReleaseSeatsOnDisconnect = cfg.ReleaseSeatsOnDisconnect

	// Build the router *with* the hub injected
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.SetupRoutes(h, reg, opts, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
