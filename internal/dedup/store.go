// Package dedup provides the TTL-windowed idempotency gate for inbound
// webhook events. Zalo delivers at-least-once; marking happens at receipt
// time, before processing, so each distinct event produces at most one
// business effect.
package dedup

import (
	"sync"
	"time"
)

// Store remembers event keys for a fixed window.
type Store struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

// NewStore creates a store that forgets keys older than ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:  ttl,
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

// SeenOrMark records key and reports whether this is its first observation
// within the TTL window. The check-then-set is atomic; concurrent calls for
// the same key yield exactly one true.
func (s *Store) SeenOrMark(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)

	if _, found := s.seen[key]; found {
		return false
	}
	s.seen[key] = now
	return true
}

// Prune removes entries older than the TTL window relative to now. It is
// also invoked opportunistically before each check.
func (s *Store) Prune(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)
}

func (s *Store) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.ttl)
	for key, at := range s.seen {
		if at.Before(cutoff) {
			delete(s.seen, key)
		}
	}
}

// Len reports the number of remembered keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
