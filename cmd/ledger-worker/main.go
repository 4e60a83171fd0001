package main

import (
	"context"
	"errors"
	"os"
	"time"

	"pennywise/internal/cli"
	"pennywise/internal/log"
	"pennywise/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(nil))
	logger := cli.SetupLogger(cfg).WithComponent(log.ComponentWorker)

	logger.Info("Starting ledger-worker",
		log.FieldOperation, log.OpStartup,
		"backend", cfg.DataBackend,
		"audit_interval", cfg.AuditInterval)

	// Every audit reloads what other processes wrote; a read cache would hide it.
	cfg.CacheSize = 0

	rt, err := cli.OpenBook(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to open book", log.FieldError, err)
		os.Exit(1)
	}

	exporter, err := cli.NewExporter(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to initialize exporter", log.FieldError, err)
		rt.Close()
		os.Exit(1)
	}
	if exporter == nil {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	} else {
		logger.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	w := worker.NewAuditWorker(rt.Book, exporter, cfg.AuditInterval, logger)

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(ctx context.Context) {
		if err := w.Stop(ctx); err != nil {
			logger.Warn("Audit worker did not stop cleanly", log.FieldError, err)
		}
		if err := rt.Close(); err != nil {
			logger.Warn("Failed to close book", log.FieldError, err)
		}
	})

	if err := w.Start(ctx); err != nil {
		logger.Error("Failed to start audit worker", log.FieldError, err)
		rt.Close()
		os.Exit(1)
	}

	if rt.Publisher != nil {
		go func() {
			err := rt.Publisher.ConsumeEvents(ctx, w.HandleEvent)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Event consumption stopped", log.FieldError, err)
			}
		}()
	} else {
		logger.Info("Skipping AMQP event consumption - no AMQP_URL provided")
	}

	cli.WaitForShutdown(ctx, done)
}
