package registry

import (
	"maps"
	"slices"
	"sync"
)

// Store is a keyed registry for one kind of build artifact. Registering
// under an existing key silently overwrites the previous entry; callers
// guarantee key uniqueness. All operations are safe for concurrent use,
// which a build relies on: layers in the same level register from separate
// goroutines.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
}

// NewStore creates a new empty store
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		entries: make(map[string]T),
	}
}

// Register stores value under key, silently overwriting any previous entry
func (s *Store[T]) Register(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value
}

// Get retrieves the value registered under key
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	return value, ok
}

// Has reports whether key is registered
func (s *Store[T]) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[key]
	return ok
}

// Len returns the number of registered entries
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Keys returns the registered keys in sorted order
func (s *Store[T]) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	return keys
}

// Snapshot returns a copy of the store's contents to prevent external
// modification
func (s *Store[T]) Snapshot() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]T, len(s.entries))
	maps.Copy(result, s.entries)

	return result
}

// Clear removes every entry
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]T)
}
