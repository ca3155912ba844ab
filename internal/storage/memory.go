package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps uploaded objects in memory. Used in tests and when no
// bucket is configured in development.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = buf

	return s.PublicURL(key), nil
}

func (s *MemoryStore) PublicURL(key string) string {
	return "memory://" + key
}

// Get returns the stored bytes for a key, if present.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len reports how many objects have been stored.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
