package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	if _, err := store.Load(ctx, KeyAccounts); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Save(ctx, KeyAccounts, []byte(`[1]`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, KeyAccounts, []byte(`[2]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Load(ctx, KeyAccounts)
	if err != nil || string(got) != `[2]` {
		t.Fatalf("Load = %q, %v", got, err)
	}

	if err := store.SaveAll(ctx, map[string][]byte{
		KeyTransactions:    []byte(`[]`),
		KeyCategoryGroups:  []byte(`[{"id":"g"}]`),
		KeyCategoryBudgets: []byte(`[]`),
	}); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	got, err = store.Load(ctx, KeyCategoryGroups)
	if err != nil || string(got) != `[{"id":"g"}]` {
		t.Fatalf("Load groups = %q, %v", got, err)
	}
}

func TestSQLiteStoreReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	first, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Save(ctx, KeyTransactions, []byte(`["x"]`)); err != nil {
		t.Fatal(err)
	}
	first.Close()

	// Migrations must be a no-op the second time.
	second, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	got, err := second.Load(ctx, KeyTransactions)
	if err != nil || string(got) != `["x"]` {
		t.Fatalf("Load after reopen = %q, %v", got, err)
	}
}

type countingStore struct {
	values  map[string][]byte
	loads   int
	failing bool
}

func (s *countingStore) Load(_ context.Context, key string) ([]byte, error) {
	s.loads++
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (s *countingStore) Save(_ context.Context, key string, value []byte) error {
	if s.failing {
		return errors.New("disk full")
	}
	s.values[key] = value
	return nil
}

func (s *countingStore) Close() error { return nil }

func TestCachedStore(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{values: map[string][]byte{KeyAccounts: []byte(`[]`)}}
	s := NewCachedStore(inner, 10, time.Minute)

	if _, err := s.Load(ctx, KeyAccounts); err != nil {
		t.Fatal(err)
	}
	first := inner.loads
	for i := 0; i < 2; i++ {
		if _, err := s.Load(ctx, KeyAccounts); err != nil {
			t.Fatal(err)
		}
	}
	if inner.loads != first {
		t.Errorf("cached loads reached the inner store: %d, want %d", inner.loads, first)
	}

	if _, err := s.Load(ctx, KeyTransactions); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing key: got %v", err)
	}

	if err := s.SaveAll(ctx, map[string][]byte{KeyAccounts: []byte(`[1]`)}); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Load(ctx, KeyAccounts)
	if string(got) != `[1]` {
		t.Errorf("cache not updated on write: %q", got)
	}

	inner.failing = true
	if err := s.Save(ctx, KeyAccounts, []byte(`[2]`)); err == nil {
		t.Fatal("expected save error")
	}
	loads := inner.loads
	got, _ = s.Load(ctx, KeyAccounts)
	if inner.loads != loads+1 || string(got) != `[1]` {
		t.Errorf("failed write should evict: loads=%d value=%q", inner.loads-loads, got)
	}
}

func TestAtomicKeepsBatchSavers(t *testing.T) {
	inner := &countingStore{values: map[string][]byte{}}
	if _, ok := Atomic(inner).(*SnapshotStore); !ok {
		t.Error("a Save-only store should be wrapped in a SnapshotStore")
	}
	cached := NewCachedStore(inner, 1, time.Minute)
	if got := Atomic(cached); got != AtomicStore(cached) {
		t.Errorf("Atomic wrapped a batch saver: %T", got)
	}
}

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{values: map[string][]byte{
		KeyAccounts:       []byte(`[{"id":"a1"}]`),
		KeyCategoryGroups: []byte(`[{"id":"g1"}]`),
	}}
	s := NewSnapshotStore(inner)

	got, err := s.Load(ctx, KeyAccounts)
	if err != nil || string(got) != `[{"id":"a1"}]` {
		t.Fatalf("legacy Load = %q, %v", got, err)
	}
	if _, err := s.Load(ctx, KeyTransactions); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing key: got %v", err)
	}

	if err := s.SaveAll(ctx, map[string][]byte{
		KeyCategoryGroups:  []byte(`[]`),
		KeyCategoryBudgets: []byte(`[]`),
	}); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if _, ok := inner.values[SnapshotKey]; !ok {
		t.Fatal("batch was not written under the snapshot key")
	}

	tests := []struct {
		key  string
		want string
	}{
		{key: KeyAccounts, want: `[{"id":"a1"}]`},
		{key: KeyCategoryGroups, want: `[]`},
		{key: KeyCategoryBudgets, want: `[]`},
	}
	for _, tt := range tests {
		got, err := s.Load(ctx, tt.key)
		if err != nil || string(got) != tt.want {
			t.Errorf("Load(%s) = %q, %v, want %q", tt.key, got, err, tt.want)
		}
	}

	inner.failing = true
	if err := s.SaveAll(ctx, map[string][]byte{KeyCategoryGroups: []byte(`[{"id":"g2"}]`)}); err == nil {
		t.Fatal("expected save error")
	}
	inner.failing = false
	if got, _ := s.Load(ctx, KeyCategoryGroups); string(got) != `[]` {
		t.Errorf("failed batch leaked: %q", got)
	}

	if err := s.Save(ctx, KeyTransactions, []byte("not json")); err == nil {
		t.Error("expected an error for a non-JSON value")
	}
}
