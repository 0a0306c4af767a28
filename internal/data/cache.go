package data

import (
	"sync"
	"time"
)

type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// Store is an in-memory TTL map used to keep computed plans retrievable by id.
// Entries are lost on restart.
type Store[T any] struct {
	mu    sync.RWMutex
	store map[string]cacheEntry[T]
	ttl   time.Duration
	now   func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// NewStore creates a store and starts a janitor that evicts expired entries
// every sweep interval. A non-positive ttl defaults to one hour.
func NewStore[T any](ttl, sweep time.Duration) *Store[T] {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if sweep <= 0 {
		sweep = 5 * time.Minute
	}
	s := &Store[T]{
		store: make(map[string]cacheEntry[T]),
		ttl:   ttl,
		now:   time.Now,
		done:  make(chan struct{}),
	}
	go s.cleanup(sweep)
	return s
}

// Get retrieves a value if present and not expired.
func (s *Store[T]) Get(key string) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.store[key]
	if !ok || s.now().After(entry.expiresAt) {
		return zero, false
	}
	return entry.value, true
}

// Set stores a value under key.
func (s *Store[T]) Set(key string, value T) {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.store[key] = cacheEntry[T]{value: value, expiresAt: s.now().Add(s.ttl)}
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store)
}

// Clear removes all entries.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = make(map[string]cacheEntry[T])
}

// Close stops the janitor goroutine.
func (s *Store[T]) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Store[T]) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, entry := range s.store {
		if now.After(entry.expiresAt) {
			delete(s.store, key)
		}
	}
}

func (s *Store[T]) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.done:
			return
		}
	}
}
