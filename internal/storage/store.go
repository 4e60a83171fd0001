// Package storage persists the ledger collections as JSON documents keyed by
// collection name.
package storage

import (
	"context"
	"errors"
)

// Keys of the persisted collections.
const (
	KeyAccounts        = "accounts"
	KeyTransactions    = "transactions"
	KeyCategoryGroups  = "categoryGroups"
	KeyCategoryBudgets = "categoryBudgets"
)

// Keys lists every collection key in load order.
var Keys = []string{KeyAccounts, KeyTransactions, KeyCategoryGroups, KeyCategoryBudgets}

// ErrNotFound is returned by Load when nothing was ever saved under a key.
var ErrNotFound = errors.New("storage: key not found")

type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// BatchSaver is implemented by stores that can write several keys atomically.
type BatchSaver interface {
	SaveAll(ctx context.Context, values map[string][]byte) error
}
