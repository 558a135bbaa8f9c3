package session

import (
	"context"
	"sync"
)

// memResumeStore is the development/test store used when no Redis is
// configured. It never expires entries; bindings are deleted with their
// game anyway.
type memResumeStore struct {
	mu sync.RWMutex
	m  map[string]Binding
}

// NewMemoryResumeStore returns an in-memory ResumeStore.
func NewMemoryResumeStore() ResumeStore {
	return &memResumeStore{m: make(map[string]Binding)}
}

func (s *memResumeStore) Put(ctx context.Context, token string, b Binding) error {
	s.mu.Lock()
	s.m[token] = b
	s.mu.Unlock()
	return nil
}

func (s *memResumeStore) Get(ctx context.Context, token string) (*Binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.m[token]; ok {
		out := b
		return &out, nil
	}
	return nil, nil
}

func (s *memResumeStore) Del(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.m, token)
	s.mu.Unlock()
	return nil
}

func (s *memResumeStore) Close() error { return nil }
