package memory

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"study-quiz-service/internal/domain"
)

// QuizLoader fetches quiz content from a backing store (fixtures, Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizCatalog keeps quiz definitions in catalog order. A miss falls through to the
// optional loader; concurrent misses for the same id share one load.
type QuizCatalog struct {
	loader QuizLoader
	sf     singleflight.Group

	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
	order   []string
}

// NewQuizCatalog builds an empty catalog. loader may be nil.
func NewQuizCatalog(loader QuizLoader) *QuizCatalog {
	return &QuizCatalog{
		loader:  loader,
		quizzes: make(map[string]domain.Quiz),
	}
}

// SetQuizzes replaces the catalog; later duplicates of an id win but keep the first position.
func (c *QuizCatalog) SetQuizzes(_ context.Context, quizzes []domain.Quiz) error {
	byID := make(map[string]domain.Quiz, len(quizzes))
	order := make([]string, 0, len(quizzes))
	for _, q := range quizzes {
		if _, seen := byID[q.ID]; !seen {
			order = append(order, q.ID)
		}
		byID[q.ID] = q
	}

	c.mu.Lock()
	c.quizzes = byID
	c.order = order
	c.mu.Unlock()
	return nil
}

func (c *QuizCatalog) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Quiz, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.quizzes[id])
	}
	return out, nil
}

func (c *QuizCatalog) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := c.lookup(quizID); ok {
		return quiz, nil
	}
	if c.loader == nil {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		// Re-check in case another goroutine filled it.
		if quiz, ok := c.lookup(quizID); ok {
			return quiz, nil
		}
		quiz, err := c.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		c.mu.Lock()
		if _, ok := c.quizzes[quizID]; !ok {
			c.order = append(c.order, quizID)
		}
		c.quizzes[quizID] = quiz
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *QuizCatalog) lookup(quizID string) (domain.Quiz, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	quiz, ok := c.quizzes[quizID]
	return quiz, ok
}
