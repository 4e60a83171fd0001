package backend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pennywise/internal/config"
	"pennywise/internal/storage"
)

func quietFactory() Factory {
	return NewFactory(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBackendType_IsValid(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		if !bt.IsValid() {
			t.Errorf("%s should be valid", bt)
		}
	}
	if BackendType("sheets").IsValid() {
		t.Error("sheets is no longer a storage backend")
	}
	if got := strings.Join(GetBackendTypeStrings(), ","); got != "memory,sqlite,mysql,postgres" {
		t.Errorf("GetBackendTypeStrings() = %s", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "memory", config: Config{Type: MemoryBackend}},
		{name: "sqlite", config: Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}},
		{name: "sqlite without path", config: Config{Type: SQLiteBackend}, wantErr: "SQLite database path is required"},
		{name: "mysql without dsn", config: Config{Type: MySQLBackend}, wantErr: "MySQL DSN is required"},
		{name: "postgres without url", config: Config{Type: PostgresBackend}, wantErr: "Postgres URL is required"},
		{name: "unknown type", config: Config{Type: "redis"}, wantErr: "invalid backend type"},
		{name: "negative cache", config: Config{Type: MemoryBackend, CacheSize: -2}, wantErr: "cache size cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: "/tmp/ledger.db",
		CacheSize:    64,
		CacheTTL:     time.Minute,
	})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "/tmp/ledger.db" || cfg.CacheSize != 64 || cfg.CacheTTL != time.Minute {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.DataDirectory != "data" {
		t.Errorf("DataDirectory = %q, want default", cfg.DataDirectory)
	}
}

func TestCreateBackend_Memory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, storage.KeyAccounts+".json"), []byte(`[{"id":"a1"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := quietFactory().CreateBackend(context.Background(), Config{Type: MemoryBackend, DataDirectory: dir})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Cleanup()

	if res.Cache != nil {
		t.Error("cache should be off when CacheSize is 0")
	}
	got, err := res.Store.Load(context.Background(), storage.KeyAccounts)
	if err != nil || string(got) != `[{"id":"a1"}]` {
		t.Errorf("seeded accounts = %s, %v", got, err)
	}
	if _, err := res.Store.Load(context.Background(), storage.KeyTransactions); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing seed should be ErrNotFound, got %v", err)
	}
}

func TestCreateBackend_SQLiteWithCache(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	res, err := quietFactory().CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path, CacheSize: 8, CacheTTL: time.Minute})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if res.Cache == nil {
		t.Fatal("expected cached store")
	}

	if err := res.Store.Save(ctx, storage.KeyCategoryGroups, []byte(`[]`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := res.Store.Load(ctx, storage.KeyCategoryGroups); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := res.Cleanup(); err != nil {
		t.Errorf("Cleanup: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file missing: %v", err)
	}
}

func TestCreateBackend_InvalidConfig(t *testing.T) {
	if _, err := quietFactory().CreateBackend(context.Background(), Config{Type: SQLiteBackend}); err == nil {
		t.Error("expected validation error")
	}
}
