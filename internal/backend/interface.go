package backend

import (
	"context"
	"time"

	"pennywise/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the store and its cleanup function. Cache is set
// when the store is wrapped in a read-through cache.
type BackendResult struct {
	Store   storage.Store
	Cache   *storage.CachedStore
	Cleanup CleanupFunc
}

// Factory creates stores based on configuration
type Factory interface {
	// CreateBackend opens the store selected by config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// MySQL specific
	MySQLDSN string

	// Postgres specific
	PostgresURL string

	// Memory backend specific
	DataDirectory string

	// Read-through cache; disabled when CacheSize is 0
	CacheSize int
	CacheTTL  time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	MySQLBackend    BackendType = "mysql"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, MySQLBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
