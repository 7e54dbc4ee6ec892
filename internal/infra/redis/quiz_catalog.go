package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"study-quiz-service/internal/domain"
)

const (
	catalogKey         = "quiz:catalog"
	catalogOrderKey    = "quiz:catalog:order"
	// present while the catalog holds a full snapshot written by SetQuizzes
	catalogSnapshotKey = "quiz:catalog:snapshot"
)

// QuizLoader fetches quiz content from a backing store (e.g., Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizCatalog keeps quiz definitions in Redis and falls back to a loader on a miss.
// Quizzes are stored as: HSET quiz:catalog {quizID} {quiz JSON}
// Catalog order as:      RPUSH quiz:catalog:order {quizID}
// A snapshot from SetQuizzes never expires; quizzes filled one by one from the loader
// expire after ttl unless a snapshot is present.
type QuizCatalog struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
}

// NewQuizCatalog builds a catalog over client. loader may be nil; ttl <= 0 keeps loader fills forever.
func NewQuizCatalog(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizCatalog {
	return &QuizCatalog{
		client: client,
		loader: loader,
		ttl:    ttl,
	}
}

// SetQuizzes replaces the catalog atomically with a snapshot that stays until the next replace.
func (c *QuizCatalog) SetQuizzes(ctx context.Context, quizzes []domain.Quiz) error {
	seen := make(map[string]struct{}, len(quizzes))
	fields := make([]interface{}, 0, len(quizzes)*2)
	order := make([]interface{}, 0, len(quizzes))
	for _, q := range quizzes {
		raw, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("marshal quiz %s: %w", q.ID, err)
		}
		fields = append(fields, q.ID, raw)
		if _, ok := seen[q.ID]; !ok {
			seen[q.ID] = struct{}{}
			order = append(order, q.ID)
		}
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, catalogKey, catalogOrderKey)
	if len(order) > 0 {
		pipe.HSet(ctx, catalogKey, fields...)
		pipe.RPush(ctx, catalogOrderKey, order...)
	}
	pipe.Set(ctx, catalogSnapshotKey, len(order), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store catalog: %w", err)
	}
	return nil
}

// ListQuizzes returns quizzes in catalog order.
func (c *QuizCatalog) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	ids, err := c.client.LRange(ctx, catalogOrderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Quiz{}, nil
	}
	values, err := c.client.HMGet(ctx, catalogKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	out := make([]domain.Quiz, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// order entry outlived its hash field
			continue
		}
		var quiz domain.Quiz
		if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
			return nil, fmt.Errorf("decode quiz %s: %w", ids[i], err)
		}
		out = append(out, quiz)
	}
	return out, nil
}

func (c *QuizCatalog) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, ok, err := c.cached(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if ok {
		return quiz, nil
	}
	if c.loader == nil {
		return domain.Quiz{}, fmt.Errorf("%w: %s", domain.ErrQuizNotFound, quizID)
	}

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok, err := c.cached(ctx, quizID); err == nil && ok {
			return quiz, nil
		}

		quiz, err := c.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		raw, err := json.Marshal(quiz)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("marshal quiz %s: %w", quizID, err)
		}

		// best-effort fill; the loaded quiz is returned either way
		added, err := c.client.HSetNX(ctx, catalogKey, quizID, raw).Result()
		if err == nil && added {
			snapshot, _ := c.client.Exists(ctx, catalogSnapshotKey).Result()
			pipe := c.client.Pipeline()
			pipe.RPush(ctx, catalogOrderKey, quizID)
			if snapshot == 0 {
				c.expire(ctx, pipe)
			}
			_, _ = pipe.Exec(ctx)
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *QuizCatalog) cached(ctx context.Context, quizID string) (domain.Quiz, bool, error) {
	raw, err := c.client.HGet(ctx, catalogKey, quizID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Quiz{}, false, nil
	}
	if err != nil {
		return domain.Quiz{}, false, fmt.Errorf("get quiz %s: %w", quizID, err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, false, fmt.Errorf("decode quiz %s: %w", quizID, err)
	}
	return quiz, true, nil
}

func (c *QuizCatalog) expire(ctx context.Context, pipe redis.Pipeliner) {
	ttl := c.ttlWithJitter()
	if ttl <= 0 {
		return
	}
	pipe.Expire(ctx, catalogKey, ttl)
	pipe.Expire(ctx, catalogOrderKey, ttl)
}

func (c *QuizCatalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
