// Package cli provides common CLI initialization utilities shared by
// cmd/salesdash and cmd/salesdash-worker.
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"salesdash/internal/config"
	"salesdash/internal/log"
	"salesdash/internal/storage"
)

// BootstrapLogger returns a text logger used until configuration is loaded.
func BootstrapLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// SetupLogger builds the application logger from configuration and
// installs it as the slog default.
func SetupLogger(cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	logCfg := log.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = strings.ToLower(cfg.LogFormat)

	logger := log.New(logCfg)
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, falling back to info", "log_level", cfg.LogLevel)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it. Failures are
// logged before being returned.
func LoadAndValidateConfig(logger *log.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", log.FieldError, err)
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldOperation, log.OpValidate, log.FieldError, err)
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// InitJournalRepository opens the SQLite activity journal at dbPath. Failures
// are logged before being returned.
func InitJournalRepository(logger *log.Logger, dbPath string) (*storage.JournalRepository, error) {
	repo, err := storage.NewJournalRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite journal", log.FieldErrorType, log.ErrorTypeDatabase, log.FieldError, err, "path", dbPath)
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return repo, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
func GracefulShutdown(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
	}()
	return ctx, stop
}
