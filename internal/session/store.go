package session

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store keeps session states in memory, evicting the least recently used
// entries past capacity and anything idle longer than ttl.
type Store struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *State]
}

// NewStore builds a store. Non-positive values fall back to 1024 sessions and 24h.
func NewStore(capacity int, ttl time.Duration) *Store {
	if capacity <= 0 {
		capacity = 1024
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{cache: expirable.NewLRU[string, *State](capacity, nil, ttl)}
}

// Get returns the state for id if it is still held.
func (s *Store) Get(id string) (*State, bool) {
	return s.cache.Get(id)
}

// GetOrCreate returns the state for id, creating an empty one when missing.
// Touching a session refreshes its expiry.
func (s *Store) GetOrCreate(id string) *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.cache.Get(id); ok {
		s.cache.Add(id, st)
		return st
	}
	st := NewState(id)
	s.cache.Add(id, st)
	return st
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len()
}
