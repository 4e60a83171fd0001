// Package cli provides common CLI initialization utilities shared by
// cmd/pennywise and cmd/ledger-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pennywise/internal/amqp"
	"pennywise/internal/backend"
	"pennywise/internal/cache"
	"pennywise/internal/config"
	"pennywise/internal/log"
	"pennywise/internal/services"
	"pennywise/internal/sheets"
	gsheet "pennywise/internal/sheets/google"
)

// SetupLogger builds the logger described by cfg and makes it the default.
// A nil cfg gives text output at Info level.
func SetupLogger(cfg *config.Config) *log.Logger {
	lc := log.DefaultConfig()
	lc.Component = log.ComponentCLI
	lc.Output = os.Stderr
	if cfg != nil {
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			lc.Level = level
		}
		lc.Format = cfg.LogFormat
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Configuration could not be loaded", log.FieldError, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// Runtime is an opened book together with the resources behind it.
type Runtime struct {
	Book      *services.Book
	Publisher *amqp.Client
	Cache     *cache.Manager
	Backend   backend.BackendType
}

// OpenBook builds the store selected by cfg, connects the event publisher
// when AMQP is configured, and loads the book. A broker that cannot be
// reached is logged and the book runs without events.
func OpenBook(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Runtime, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Backend: bcfg.Type}
	opts := []services.Option{
		services.WithLogger(logger),
		services.WithRecurringCount(cfg.RecurringCount),
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
			rt.Publisher = client
			opts = append(opts, services.WithPublisher(client))
		}
	}

	if res.Cache != nil {
		rt.Cache = cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
		rt.Cache.Register(res.Cache.Cache())
		rt.Cache.StartCleanup(cacheSweepInterval(cfg.CacheTTL))
	}

	rt.Book = services.NewBook(res.Store, opts...)
	if err := rt.Book.Load(ctx); err != nil {
		rt.Close()
		return nil, fmt.Errorf("load book: %w", err)
	}
	return rt, nil
}

func cacheSweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}

// Close releases the publisher, the cache sweeper and the store.
func (rt *Runtime) Close() error {
	if rt.Cache != nil {
		rt.Cache.Stop()
	}
	if rt.Publisher != nil {
		_ = rt.Publisher.Close()
	}
	if rt.Book != nil {
		return rt.Book.Close()
	}
	return nil
}

// NewExporter returns the Google Sheets exporter when a spreadsheet is
// configured, or nil otherwise.
func NewExporter(ctx context.Context, cfg *config.Config) (sheets.LedgerExporter, error) {
	if !cfg.SheetsEnabled() {
		return nil, nil
	}
	client, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		CredentialsFile: cfg.GoogleCredentialsFile,
		CredentialsJSON: cfg.GoogleCredentialsJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	return client, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
