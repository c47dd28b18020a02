package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"budgettracker/internal/cli"
	apphttp "budgettracker/internal/http"
	applog "budgettracker/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		slog.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg.LogLevel, os.Stdout)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	rt, err := cli.Bootstrap(ctx, cfg, logger)
	if err != nil {
		logger.Error("Startup failed", applog.FieldError, err)
		os.Exit(1)
	}
	defer rt.Close()

	srv := apphttp.NewServer(":"+cfg.Port, rt.Controller, apphttp.Options{
		Categories: cfg.Categories,
		Ready:      rt.Ready,
		Logger:     logger,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting budget tracker server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		rt.Close()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
