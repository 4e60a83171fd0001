package backend

import (
	"context"
	"fmt"
	"log/slog"

	"pennywise/internal/storage"
	"pennywise/internal/storage/memory"
	"pennywise/internal/storage/postgres"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store storage.Store
		err   error
	)
	switch config.Type {
	case SQLiteBackend:
		store, err = f.createSQLiteStore(config)
	case MySQLBackend:
		store, err = f.createMySQLStore(config)
	case PostgresBackend:
		store, err = f.createPostgresStore(ctx, config)
	case MemoryBackend:
		store = f.createMemoryStore(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	result := &BackendResult{Store: store, Cleanup: store.Close}
	if config.CacheSize > 0 {
		cached := storage.NewCachedStore(store, config.CacheSize, config.CacheTTL)
		result.Store = cached
		result.Cache = cached
		result.Cleanup = cached.Close
		f.logger.Info("Enabled read-through cache",
			"size", config.CacheSize,
			"ttl", config.CacheTTL)
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteStore(config Config) (storage.Store, error) {
	store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return store, nil
}

func (f *DefaultFactory) createMySQLStore(config Config) (storage.Store, error) {
	store, err := storage.NewMySQLStore(config.MySQLDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MySQL store: %w", err)
	}
	f.logger.Info("Initialized MySQL backend")
	return store, nil
}

func (f *DefaultFactory) createPostgresStore(ctx context.Context, config Config) (storage.Store, error) {
	store, err := postgres.Open(ctx, config.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres store: %w", err)
	}
	f.logger.Info("Initialized Postgres backend")
	return store, nil
}

func (f *DefaultFactory) createMemoryStore(config Config) storage.Store {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data" // Default directory
	}

	store := memory.NewFromFiles(dataDir)
	f.logger.Info("Initialized memory backend", "data_directory", dataDir)
	return store
}
