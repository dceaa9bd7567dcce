// Package store implements the in-memory key/value table backing SET and
// GET: an RWMutex-guarded map with lazy per-key TTL expiry, shaped after
// the teacher's registry (a map guarded the same way, upgrading to a write
// lock only when a record must actually be evicted).
package store

import (
	"sync"
	"time"

	"github.com/vh012/wiredaemon/internal/resp/types"
)

// Entry is one stored value, optionally expiring.
type Entry struct {
	Data      types.Value
	TTL       *time.Duration
	CreatedAt time.Time
}

// expired reports whether e's TTL has elapsed as of now.
func (e Entry) expired(now time.Time) bool {
	return e.TTL != nil && now.Sub(e.CreatedAt) > *e.TTL
}

// Store is the shared key/value table. The zero value is not usable; use
// New.
type Store struct {
	mu   sync.RWMutex
	data map[string]Entry
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string]Entry)}
}

// Insert stores value under key, replacing any existing entry. A nil ttl
// means the key never expires.
func (s *Store) Insert(key types.Value, value types.Value, ttl *time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key.Key()] = Entry{Data: value, TTL: ttl, CreatedAt: time.Now()}
}

// Get looks up key. A missing or expired key both report ok=false; an
// expired key is evicted as a side effect, matching the original's
// get-then-remove-on-expiry shape.
func (s *Store) Get(key types.Value) (value types.Value, ok bool) {
	k := key.Key()

	s.mu.RLock()
	entry, found := s.data[k]
	s.mu.RUnlock()

	if !found {
		return types.Value{}, false
	}

	if !entry.expired(time.Now()) {
		return entry.Data, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the write lock: another goroutine may have refreshed
	// or removed the key between the RUnlock above and this Lock.
	entry, found = s.data[k]
	if !found {
		return types.Value{}, false
	}
	if entry.expired(time.Now()) {
		delete(s.data, k)
		return types.Value{}, false
	}

	return entry.Data, true
}

// Remove deletes key unconditionally. It reports whether the key was
// present.
func (s *Store) Remove(key types.Value) bool {
	k := key.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, found := s.data[k]
	delete(s.data, k)
	return found
}

// Len reports the number of stored keys, including any not-yet-evicted
// expired ones.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}
