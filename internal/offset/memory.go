package offset

import (
	"context"
	"sync"
)

// MemoryStore keeps offsets in process memory. Used when no database
// is configured; offsets are lost on process restart.
type MemoryStore struct {
	mu      sync.RWMutex
	offsets map[string]int64
}

// NewMemoryStore creates an empty in-memory offset store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{offsets: make(map[string]int64)}
}

func (s *MemoryStore) Get(_ context.Context, path string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offsets[path], nil
}

func (s *MemoryStore) Save(_ context.Context, path string, off int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offsets[path] = off
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.offsets))
	for p := range s.offsets {
		paths = append(paths, p)
	}
	return paths, nil
}

func (s *MemoryStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.offsets, path)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
