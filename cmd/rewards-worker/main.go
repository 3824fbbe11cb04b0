package main

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"rewards/internal/amqp"
	"rewards/internal/cli"
	gsheet "rewards/internal/feed/google"
	applog "rewards/internal/log"
	"rewards/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting rewards-worker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPFeedQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ingest := worker.NewIngestWorker(repo, repo)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Backfill from the spreadsheet feed before consuming, so the store
	// covers records published while the worker was down.
	if cfg.GoogleSpreadsheetID != "" {
		source, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		logger.Info("Importing transactions from spreadsheet feed",
			"spreadsheet_id", cfg.GoogleSpreadsheetID)
		if err := ingest.ImportFromSource(ctx, source); err != nil {
			logger.Error("Spreadsheet import failed", "error", err)
			// Don't exit - continue with queue consumption
		}
	} else {
		logger.Info("Spreadsheet feed disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeTransactions(gctx, func(msg *amqp.TransactionMessage) error {
			return ingest.HandleTransactionMessage(gctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.StatsInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				ingest.ReportStats(gctx)
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
