package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/salaswilliams02-bit/Finance-Tracker/internal/amqp"
	"github.com/salaswilliams02-bit/Finance-Tracker/internal/config"
	"github.com/salaswilliams02-bit/Finance-Tracker/internal/sheets"
	"github.com/salaswilliams02-bit/Finance-Tracker/internal/storage"
	"github.com/salaswilliams02-bit/Finance-Tracker/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting ledger-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the snapshot worker")
		os.Exit(1)
	}

	gateway, err := storage.NewSQLiteGateway(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize storage gateway", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer gateway.Close()

	// Google Sheets mirror is optional
	var mirror worker.TransactionMirror
	if cfg.GoogleSpreadsheetID != "" {
		m, err := sheets.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets mirror", "error", err)
			os.Exit(1)
		}
		mirror = m
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshotWorker := worker.NewSnapshotWorker(gateway, mirror, cfg.SnapshotPath)

	// Write an initial snapshot so a fresh worker starts consistent.
	if err := snapshotWorker.Snapshot(ctx); err != nil {
		logger.Error("Initial snapshot failed", "error", err)
	}

	logger.Info("Worker running",
		"snapshot_path", cfg.SnapshotPath,
		"interval", cfg.SnapshotInterval.String())

	if err := snapshotWorker.Run(ctx, amqpClient, cfg.SnapshotInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
