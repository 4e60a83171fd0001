package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// SnapshotKey is the single key a SnapshotStore writes to.
const SnapshotKey = "ledger"

// AtomicStore persists several collections in one step.
type AtomicStore interface {
	Store
	BatchSaver
}

// Atomic returns s unchanged when it already saves batches, otherwise a
// SnapshotStore over it.
func Atomic(s Store) AtomicStore {
	if a, ok := s.(AtomicStore); ok {
		return a
	}
	return NewSnapshotStore(s)
}

// SnapshotStore keeps every collection in one JSON document under
// SnapshotKey, so a batch is a single Save on the inner store. Until the
// first write, collections stored under their own keys are read as before.
// Values must be JSON.
type SnapshotStore struct {
	mu    sync.Mutex
	inner Store
}

func NewSnapshotStore(inner Store) *SnapshotStore {
	return &SnapshotStore{inner: inner}
}

func (s *SnapshotStore) snapshot(ctx context.Context) (map[string]json.RawMessage, error) {
	raw, err := s.inner.Load(ctx, SnapshotKey)
	if err == nil {
		doc := map[string]json.RawMessage{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", SnapshotKey, err)
		}
		return doc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	doc := map[string]json.RawMessage{}
	for _, key := range Keys {
		v, err := s.inner.Load(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		doc[key] = v
	}
	return doc, nil
}

func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (s *SnapshotStore) Save(ctx context.Context, key string, value []byte) error {
	return s.SaveAll(ctx, map[string][]byte{key: value})
}

func (s *SnapshotStore) SaveAll(ctx context.Context, values map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	for key, value := range values {
		if !json.Valid(value) {
			return fmt.Errorf("save %s: value is not JSON", key)
		}
		doc[key] = value
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.inner.Save(ctx, SnapshotKey, raw)
}

func (s *SnapshotStore) Close() error { return s.inner.Close() }

var _ AtomicStore = (*SnapshotStore)(nil)
