package memory

import (
	"context"
	"sync"

	"study-quiz-service/internal/domain"
)

// PreferenceStore keeps key-value preferences for the lifetime of the process.
type PreferenceStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{values: make(map[string]string)}
}

func (s *PreferenceStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", domain.ErrPreferenceNotFound
	}
	return v, nil
}

func (s *PreferenceStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
