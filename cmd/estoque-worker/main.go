package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"estoque/internal/amqp"
	"estoque/internal/cli"
	"estoque/internal/ports"
	gsheet "estoque/internal/sheets/google"
	"estoque/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(slog.LevelInfo)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.SlogLevel())

	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Mirror configuration invalid", "error", err)
		os.Exit(1)
	}
	loc := cfg.Location()

	logger.Info("Starting estoque-worker")

	sheetsClient, err := gsheet.New(context.Background(), gsheet.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		LogSheetName:       cfg.GoogleLogSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
		Location:           loc,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	// Backfill reads the local store only when the server persists to SQLite.
	var source ports.LogRepository
	if cfg.DataBackend == "sqlite" {
		sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath, loc)
		defer sqliteRepo.Close()
		source = sqliteRepo
	} else {
		logger.Info("Startup backfill disabled - data backend is not sqlite", "backend", cfg.DataBackend)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirrorWorker := worker.NewMirrorWorker(sheetsClient, source, cfg.SyncBatchSize, loc)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	logger.Info("Performing startup sync check...")
	if err := mirrorWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
	}

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- amqpClient.ConsumeLogEvents(ctx, mirrorWorker.HandleLogEvent)
	}()

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	logger.Info("Worker started", "sync_interval", cfg.SyncInterval, "batch_size", cfg.SyncBatchSize)

	for {
		select {
		case <-ctx.Done():
			<-done
			logger.Info("Worker stopped gracefully")
			return
		case err := <-consumeErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
			logger.Info("Worker stopped")
			return
		case <-ticker.C:
			if err := mirrorWorker.StartupSyncCheck(ctx); err != nil {
				logger.Error("Periodic sync check failed", "error", err)
			}
		}
	}
}
