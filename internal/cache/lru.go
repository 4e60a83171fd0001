package cache

import (
	"sync"
	"time"
)

// entry is a node in the recency ring. The ring's sentinel sits between the
// newest entry (sentinel.next) and the oldest (sentinel.prev).
type entry[T any] struct {
	key        string
	value      T
	storedAt   time.Time
	prev, next *entry[T]
}

// LRUCache holds at most capacity entries, dropping the least recently used
// one on overflow. Entries older than ttl read as absent.
type LRUCache[T any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time
	entries  map[string]*entry[T]
	ring     entry[T]
}

// NewLRUCache creates a cache of the given capacity (at least one). A zero ttl
// keeps entries until they are pushed out.
func NewLRUCache[T any](capacity int, ttl time.Duration) *LRUCache[T] {
	c := &LRUCache[T]{
		capacity: max(capacity, 1),
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[string]*entry[T]),
	}
	c.ring.prev, c.ring.next = &c.ring, &c.ring
	return c
}

func (c *LRUCache[T]) stale(e *entry[T], now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.storedAt) > c.ttl
}

func (c *LRUCache[T]) unlink(e *entry[T]) {
	e.prev.next, e.next.prev = e.next, e.prev
	e.prev, e.next = nil, nil
}

func (c *LRUCache[T]) pushNewest(e *entry[T]) {
	e.prev, e.next = &c.ring, c.ring.next
	c.ring.next.prev = e
	c.ring.next = e
}

func (c *LRUCache[T]) drop(e *entry[T]) {
	c.unlink(e)
	delete(c.entries, e.key)
}

func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if c.stale(e, c.now()) {
		c.drop(e)
		var zero T
		return zero, false
	}
	c.unlink(e)
	c.pushNewest(e)
	return e.value, true
}

// Set stores value under key as the newest entry.
func (c *LRUCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.unlink(e)
		e.value, e.storedAt = value, c.now()
		c.pushNewest(e)
		return
	}

	e := &entry[T]{key: key, value: value, storedAt: c.now()}
	c.entries[key] = e
	c.pushNewest(e)
	if len(c.entries) > c.capacity {
		c.drop(c.ring.prev)
	}
}

func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.drop(e)
	}
}

// CleanExpired drops every stale entry and reports how many went.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for e := c.ring.prev; e != &c.ring; {
		older := e.prev
		if c.stale(e, now) {
			c.drop(e)
			n++
		}
		e = older
	}
	return n
}

func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
