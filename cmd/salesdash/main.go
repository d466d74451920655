package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"salesdash/internal/backend"
	"salesdash/internal/cli"
	apphttp "salesdash/internal/http"
	"salesdash/internal/log"
	"salesdash/internal/session"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run wires the server and blocks until it stops. Errors are logged where
// they happen; every deferred cleanup has run by the time run returns.
func run() error {
	cli.LoadEnvFile()
	logger := cli.BootstrapLogger()

	cfg, err := cli.LoadAndValidateConfig(logger)
	if err != nil {
		return err
	}
	logger = cli.SetupLogger(cfg)
	logger.Info("Starting salesdash", log.FieldOperation, log.OpStartup, "port", cfg.Port, "journal_backend", cfg.JournalBackend)

	ctx, stop := cli.GracefulShutdown(logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		return err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize activity backend", log.FieldError, err, "backend", backendCfg.Type.String())
		return err
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	sessions := session.NewStore(session.Config{
		MaxSessions: cfg.SessionMax,
		IdleTTL:     cfg.SessionTTL,
	})
	sessions.StartCleanup()
	defer sessions.Stop()

	srv := apphttp.NewServer(apphttp.Options{
		Addr:             cfg.Addr(),
		Logger:           logger,
		Sessions:         sessions,
		Activity:         result.Activity,
		RateLimitPerMin:  cfg.RateLimitPerMinute,
		SessionCookie:    cfg.SessionCookie,
		SessionCookieTTL: cfg.SessionTTL,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("Shutting down HTTP server", log.FieldOperation, log.OpShutdown, "timeout", cfg.ShutdownTimeout.String())
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", log.FieldError, err)
		return err
	}
	logger.Info("Server stopped")
	return nil
}
