package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"study-quiz-service/internal/domain"
)

const (
	resultsKey      = "quiz:results"
	resultsIndexKey = "quiz:results:index"
)

// ResultStore appends results to a Redis list in completion order and indexes them by id.
// History keys never expire.
type ResultStore struct {
	client *redis.Client
}

func NewResultStore(client *redis.Client) *ResultStore {
	return &ResultStore{client: client}
}

func (s *ResultStore) RecordResult(ctx context.Context, result domain.QuizResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result %s: %w", result.ID, err)
	}
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, resultsKey, raw)
	pipe.HSet(ctx, resultsIndexKey, result.ID, raw)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record result %s: %w", result.ID, err)
	}
	return nil
}

func (s *ResultStore) FindResult(ctx context.Context, resultID string) (domain.QuizResult, error) {
	raw, err := s.client.HGet(ctx, resultsIndexKey, resultID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.QuizResult{}, fmt.Errorf("%w: %s", domain.ErrResultNotFound, resultID)
	}
	if err != nil {
		return domain.QuizResult{}, fmt.Errorf("find result %s: %w", resultID, err)
	}
	var result domain.QuizResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.QuizResult{}, fmt.Errorf("decode result %s: %w", resultID, err)
	}
	return result, nil
}

func (s *ResultStore) ListResults(ctx context.Context) ([]domain.QuizResult, error) {
	values, err := s.client.LRange(ctx, resultsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	out := make([]domain.QuizResult, 0, len(values))
	for _, v := range values {
		var result domain.QuizResult
		if err := json.Unmarshal([]byte(v), &result); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		out = append(out, result)
	}
	return out, nil
}
