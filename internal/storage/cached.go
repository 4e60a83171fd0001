package storage

import (
	"context"
	"time"

	"pennywise/internal/cache"
)

// CachedStore serves repeated loads from an LRU and writes through to the
// wrapped store. The cache is only updated after the inner write succeeds.
type CachedStore struct {
	inner AtomicStore
	cache *cache.LRUCache[[]byte]
}

func NewCachedStore(inner Store, size int, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: Atomic(inner), cache: cache.NewLRUCache[[]byte](size, ttl)}
}

func (s *CachedStore) Load(ctx context.Context, key string) ([]byte, error) {
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}
	v, err := s.inner.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, v)
	return v, nil
}

func (s *CachedStore) Save(ctx context.Context, key string, value []byte) error {
	if err := s.inner.Save(ctx, key, value); err != nil {
		s.cache.Delete(key)
		return err
	}
	s.cache.Set(key, value)
	return nil
}

func (s *CachedStore) SaveAll(ctx context.Context, values map[string][]byte) error {
	if err := s.inner.SaveAll(ctx, values); err != nil {
		for key := range values {
			s.cache.Delete(key)
		}
		return err
	}
	for key, value := range values {
		s.cache.Set(key, value)
	}
	return nil
}

// Cache exposes the LRU so callers can register it for expiry sweeps.
func (s *CachedStore) Cache() *cache.LRUCache[[]byte] { return s.cache }

func (s *CachedStore) Close() error { return s.inner.Close() }

var (
	_ Store      = (*CachedStore)(nil)
	_ BatchSaver = (*CachedStore)(nil)
)
