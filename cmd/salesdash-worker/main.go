package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"salesdash/internal/amqp"
	"salesdash/internal/cli"
	"salesdash/internal/log"
	"salesdash/internal/worker"
)

const statsInterval = time.Minute

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cli.LoadEnvFile()
	logger := cli.BootstrapLogger()

	cfg, err := cli.LoadAndValidateConfig(logger)
	if err != nil {
		return err
	}
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Worker configuration validation failed", log.FieldError, err)
		return err
	}
	logger = cli.SetupLogger(cfg).WithComponent(log.ComponentWorker)
	logger.Info("Starting salesdash-worker", log.FieldOperation, log.OpStartup, "queue", cfg.AMQPQueue, "db_path", cfg.SQLiteDBPath)

	repo, err := cli.InitJournalRepository(logger, cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		return err
	}
	defer client.Close()

	ctx, stop := cli.GracefulShutdown(logger)
	defer stop()

	w := worker.NewJournalWorker(repo)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.ConsumeActivity(gctx, w.HandleActivityMessage)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				logger.Info("Journal worker stats", "processed", w.Processed(), "failed", w.Failed())
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Message consumption failed", log.FieldOperation, log.OpConsume, log.FieldError, err)
		return err
	}
	logger.Info("Worker stopped", log.FieldOperation, log.OpShutdown, "processed", w.Processed(), "failed", w.Failed())
	return nil
}
