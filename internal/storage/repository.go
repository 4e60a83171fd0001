package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// sqlStore keeps each key as one row of ledger_state. The two dialects only
// differ in how an existing row is overwritten.
type sqlStore struct {
	db     *sql.DB
	upsert string
	name   string
}

const (
	sqliteUpsert = `INSERT INTO ledger_state (state_key, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT(state_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`

	mysqlUpsert = `INSERT INTO ledger_state (state_key, payload, updated_at) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)`

	selectState = `SELECT payload FROM ledger_state WHERE state_key = ?`
)

type SQLiteStore struct {
	*sqlStore
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; sqlite would otherwise return SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunSQLiteMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{&sqlStore{db: db, upsert: sqliteUpsert, name: "sqlite"}}, nil
}

type MySQLStore struct {
	*sqlStore
}

// NewMySQLStore connects with a go-sql-driver DSN, for example
// "user:pass@tcp(localhost:3306)/pennywise".
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMySQLMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &MySQLStore{&sqlStore{db: db, upsert: mysqlUpsert, name: "mysql"}}, nil
}

func (s *sqlStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *sqlStore) Load(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, selectState, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return payload, nil
}

func (s *sqlStore) Save(ctx context.Context, key string, value []byte) error {
	return s.SaveAll(ctx, map[string][]byte{key: value})
}

// SaveAll writes every value in a single database transaction.
func (s *sqlStore) SaveAll(ctx context.Context, values map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for key, value := range values {
		if _, err := tx.ExecContext(ctx, s.upsert, key, value, now); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.DebugContext(ctx, "Ledger state saved",
		"backend", s.name,
		"keys", len(values))
	return nil
}

var (
	_ Store      = (*SQLiteStore)(nil)
	_ BatchSaver = (*SQLiteStore)(nil)
	_ Store      = (*MySQLStore)(nil)
	_ BatchSaver = (*MySQLStore)(nil)
)
