// Package memory provides an in-process storage.Store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/storage"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Store keeps values in a map. Entries expire after the configured TTL; a zero
// TTL keeps them forever.
type Store struct {
	mu   sync.RWMutex
	data map[string]entry
	ttl  time.Duration
	now  func() time.Time
}

var _ storage.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		data: make(map[string]entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get implements storage.Store.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok || s.expired(e) {
		return nil, storage.KeyNotFound(key)
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Put implements storage.Store.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	e := entry{value: v}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()
	return nil
}

// Delete implements storage.Store.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Ping implements storage.Store.
func (s *Store) Ping(context.Context) error { return nil }

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.data {
		if !s.expired(e) {
			n++
		}
	}
	return n
}

func (s *Store) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

// Sweep drops expired entries and reports how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.data {
		if s.expired(e) {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}
