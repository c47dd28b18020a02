// Package cli provides the start-up wiring shared by cmd/budget-tracker and
// cmd/budgetctl.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"budgettracker/internal/amqp"
	"budgettracker/internal/app"
	"budgettracker/internal/config"
	applog "budgettracker/internal/log"
	"budgettracker/internal/persistence"
	"budgettracker/internal/storage"
	"budgettracker/internal/storage/memory"
)

// SetupLogger initializes structured logging at the given level and sets it
// as the default logger.
func SetupLogger(level string, out io.Writer) *slog.Logger {
	logger := applog.New(applog.Config{
		Level:  applog.ParseLevel(level),
		Output: out,
	})
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenStore returns the key-value store selected by cfg.DataBackend and a
// function releasing it.
func OpenStore(cfg *config.Config, logger *slog.Logger) (storage.KV, func() error, error) {
	switch cfg.DataBackend {
	case config.BackendMemory:
		logger.Info("Using in-memory store, state is lost on exit")
		return memory.New(), func() error { return nil }, nil
	case config.BackendSQLite:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store %s: %w", cfg.SQLiteDBPath, err)
		}
		logger.Info("SQLite store ready", "path", cfg.SQLiteDBPath)
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Runtime holds the wired application for one process.
type Runtime struct {
	Config     *config.Config
	Store      storage.KV
	Controller *app.Controller
	// Events is nil when AMQP is disabled.
	Events  *amqp.Client
	closers []func() error
}

// Bootstrap opens the store, loads the persisted state and builds the
// controller. A corrupt stored value fails the start-up unless
// cfg.ResetOnCorrupt is set.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	store, closeStore, err := OpenStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{Config: cfg, Store: store, closers: []func() error{closeStore}}

	adapter := persistence.New(store, persistence.Options{
		ResetOnCorrupt: cfg.ResetOnCorrupt,
		Logger:         logger,
	})
	initial, err := adapter.Load(ctx)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}
	logger.Info("State loaded",
		"expenses", len(initial.Expenses),
		"reminders", len(initial.Reminders),
		"budget", initial.Budget.String())

	opts := app.Options{Logger: logger}
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.Events = client
		rt.closers = append(rt.closers, client.Close)
		opts.Events = client
		logger.Info("Publishing state events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	rt.Controller = app.NewController(initial, adapter, opts)
	return rt, nil
}

// Ready reports whether the store answers.
func (r *Runtime) Ready(ctx context.Context) error {
	if p, ok := r.Store.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases resources in reverse order of acquisition.
func (r *Runtime) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
