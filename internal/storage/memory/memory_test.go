package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pennywise/internal/storage"
)

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Load(ctx, storage.KeyAccounts); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	value := []byte(`[{"id":"a"}]`)
	if err := s.Save(ctx, storage.KeyAccounts, value); err != nil {
		t.Fatalf("Save: %v", err)
	}
	value[0] = 'X' // caller mutation must not leak in

	got, err := s.Load(ctx, storage.KeyAccounts)
	if err != nil || string(got) != `[{"id":"a"}]` {
		t.Fatalf("unexpected load: %q err=%v", got, err)
	}

	if err := s.SaveAll(ctx, map[string][]byte{
		storage.KeyCategoryGroups:  []byte(`[]`),
		storage.KeyCategoryBudgets: []byte(`[]`),
	}); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if _, err := s.Load(ctx, storage.KeyCategoryBudgets); err != nil {
		t.Fatalf("Load after SaveAll: %v", err)
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	s := NewFromFiles(dir)
	if _, err := s.Load(context.Background(), storage.KeyTransactions); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected empty store when files missing, got %v", err)
	}

	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("accounts.json", "\n[{\"id\":\"a\",\"name\":\"Checking\"}]\n")
	mustWrite("transactions.json", "{not json")
	mustWrite("unrelated.json", "[]")

	s = NewFromFiles(dir)
	got, err := s.Load(context.Background(), storage.KeyAccounts)
	if err != nil || string(got) != `[{"id":"a","name":"Checking"}]` {
		t.Fatalf("unexpected accounts seed: %q err=%v", got, err)
	}
	if _, err := s.Load(context.Background(), storage.KeyTransactions); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("malformed seed should be skipped, got %v", err)
	}
	if _, err := s.Load(context.Background(), "unrelated"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("unknown keys should not be seeded, got %v", err)
	}
}
