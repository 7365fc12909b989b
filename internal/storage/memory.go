package storage

import (
	"context"
	"sync"
)

type memoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemory() Storage {
	return &memoryStorage{items: make(map[string]string)}
}

func (s *memoryStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *memoryStorage) SetMany(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range values {
		s.items[k] = v
	}
	return nil
}

func (s *memoryStorage) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.items, k)
	}
	return nil
}

func (s *memoryStorage) Close(context.Context) error {
	return nil
}
