package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pennywise/internal/config"
	"pennywise/internal/core"
	"pennywise/internal/ledger"
	"pennywise/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataBackend:    "sqlite",
		SQLiteDBPath:   filepath.Join(t.TempDir(), "ledger.db"),
		CacheSize:      16,
		CacheTTL:       time.Minute,
		RecurringCount: 2,
		Currency:       "EUR",
		AuditInterval:  time.Hour,
		LogLevel:       "error",
		LogFormat:      "json",
	}
}

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger(&config.Config{LogLevel: "debug", LogFormat: "json"})
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be enabled")
	}

	logger = SetupLogger(nil)
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("default logger should not log debug")
	}
}

func TestCacheSweepInterval(t *testing.T) {
	if got := cacheSweepInterval(0); got != time.Minute {
		t.Errorf("cacheSweepInterval(0) = %v", got)
	}
	if got := cacheSweepInterval(30 * time.Second); got != 30*time.Second {
		t.Errorf("cacheSweepInterval(30s) = %v", got)
	}
}

func TestOpenBook_PersistsAcrossRuntimes(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	logger := SetupLogger(cfg)

	rt, err := OpenBook(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("OpenBook: %v", err)
	}
	if rt.Cache == nil {
		t.Error("cache manager should run when CacheSize > 0")
	}
	if rt.Publisher != nil {
		t.Error("no publisher without AMQP_URL")
	}

	acc, err := rt.Book.AddAccount(ctx, ledger.AccountInput{Name: "Checking", Type: core.Checking})
	if err != nil {
		t.Fatal(err)
	}
	txs, err := rt.Book.AddRecurringTransaction(ctx,
		ledger.TransactionInput{AccountID: acc.ID, Date: core.NewDate(2024, 1, 1), Category: "Gym", Expense: core.Cents(3000)},
		ledger.RecurrenceInput{Frequency: core.Monthly, Interval: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 3 {
		t.Errorf("recurring count from config not applied: %d transactions", len(txs))
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rt, err = OpenBook(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer rt.Close()
	if got, _ := rt.Book.Account(acc.ID); got.Balance != core.Cents(-9000) {
		t.Errorf("balance after reopen = %v", got.Balance)
	}
}

func TestOpenBook_CorruptStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, storage.KeyAccounts+".json"), []byte(`{"oops":true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t)
	cfg.DataBackend = "memory"
	cfg.DataDirectory = dir
	cfg.CacheSize = 0

	if _, err := OpenBook(ctx, cfg, SetupLogger(cfg)); err == nil {
		t.Error("expected load error")
	}
}

func TestNewExporter_Disabled(t *testing.T) {
	exp, err := NewExporter(context.Background(), &config.Config{})
	if err != nil || exp != nil {
		t.Errorf("NewExporter = %v, %v; want nil, nil", exp, err)
	}
}
