package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"study-quiz-service/internal/domain"
)

// PreferenceStore keeps preferences as plain strings under prefs:{key}.
type PreferenceStore struct {
	client *redis.Client
}

func NewPreferenceStore(client *redis.Client) *PreferenceStore {
	return &PreferenceStore{client: client}
}

func (s *PreferenceStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", domain.ErrPreferenceNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("get preference %s: %w", key, err)
	}
	return v, nil
}

func (s *PreferenceStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}

func (s *PreferenceStore) key(key string) string {
	return "prefs:" + key
}
