package memory

import (
	"context"
	"sync"

	"study-quiz-service/internal/domain"
)

// ResultStore is the append-only result history. Retakes are separate entries.
type ResultStore struct {
	mu      sync.RWMutex
	results []domain.QuizResult
	byID    map[string]int
}

func NewResultStore() *ResultStore {
	return &ResultStore{byID: make(map[string]int)}
}

func (s *ResultStore) RecordResult(_ context.Context, result domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	s.byID[result.ID] = len(s.results) - 1
	return nil
}

func (s *ResultStore) FindResult(_ context.Context, resultID string) (domain.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[resultID]
	if !ok {
		return domain.QuizResult{}, domain.ErrResultNotFound
	}
	return s.results[i], nil
}

func (s *ResultStore) ListResults(_ context.Context) ([]domain.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.QuizResult, len(s.results))
	copy(out, s.results)
	return out, nil
}
