// Package cli provides the terminal front-end: initialization helpers shared by the
// entrypoint, the cobra command tree and output rendering.
package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/app"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// SetupLogger builds the application logger from configuration and installs it as the
// slog default. An unknown level falls back to info; Validate reports it separately.
func SetupLogger(cfg *config.Config) *log.Logger {
	logCfg := log.DefaultConfig()
	logCfg.Level, _ = log.ParseLevel(cfg.LogLevel)
	logCfg.Format = cfg.LogFormat
	logger := log.New(logCfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewDataContext constructs the store and its aggregator once and injects them into a
// fresh, not yet activated data context.
func NewDataContext(cfg *config.Config, logger *log.Logger) *app.DataContext {
	store := storage.NewTransactionStore(cfg.DBPath(), storage.Options{
		DebugSQL: cfg.DebugSQL,
		Logger:   logger,
	})
	return app.New(store, storage.NewSummaryAggregator(store), logger)
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
