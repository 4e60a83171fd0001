// Package memory is an in-process storage.Store, optionally seeded from JSON
// files on disk. Nothing is written back to the files.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"pennywise/internal/storage"
)

type Store struct {
	mu     sync.Mutex
	values map[string][]byte
}

func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

// NewFromFiles seeds the store from <base>/<key>.json for every known key.
// Missing or malformed files are skipped.
func NewFromFiles(base string) *Store {
	s := New()
	for _, key := range storage.Keys {
		b, err := os.ReadFile(filepath.Join(base, key+".json"))
		if err != nil {
			continue
		}
		b = bytes.TrimSpace(b)
		if len(b) == 0 || !json.Valid(b) {
			continue
		}
		s.values[key] = b
	}
	return s
}

func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (s *Store) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = bytes.Clone(value)
	return nil
}

func (s *Store) SaveAll(_ context.Context, values map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = bytes.Clone(v)
	}
	return nil
}

func (s *Store) Close() error { return nil }

var (
	_ storage.Store      = (*Store)(nil)
	_ storage.BatchSaver = (*Store)(nil)
)
