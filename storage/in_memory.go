package storage

import (
	"context"
	"sync"

	"github.com/hupe1980/skillhost/core"
)

// InMemoryStore is a volatile core.Storage implementation backed by a
// process-local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo hosts. Values are copied on both write and read so
// callers can never mutate stored state through a retained slice.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string][]byte)}
}

// Get returns the value for key, if present.
func (s *InMemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set stores a copy of value under key, replacing any previous value.
func (s *InMemoryStore) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = stored
	return nil
}

// Delete removes key; deleting an absent key is not an error.
func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Interface compliance (compile-time assertion)
var _ core.Storage = (*InMemoryStore)(nil)
