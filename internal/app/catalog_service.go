package app

import (
	"context"
	"fmt"
	"log/slog"

	"study-quiz-service/internal/domain"
)

// CatalogService exposes quiz definitions and the result history.
type CatalogService struct {
	quizzes QuizCatalog
	results ResultRepository
}

func NewCatalogService(quizzes QuizCatalog, results ResultRepository) *CatalogService {
	return &CatalogService{quizzes: quizzes, results: results}
}

// SetQuizzes replaces the whole catalog. Invalid quizzes are kept but logged;
// they are rejected when someone tries to start them.
func (c *CatalogService) SetQuizzes(ctx context.Context, quizzes []domain.Quiz) error {
	for _, q := range quizzes {
		if err := q.Validate(); err != nil {
			slog.Warn("catalog contains unplayable quiz", "quiz", q.ID, "error", err)
		}
	}
	if err := c.quizzes.SetQuizzes(ctx, quizzes); err != nil {
		return fmt.Errorf("set quizzes: %w", err)
	}
	return nil
}

func (c *CatalogService) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return c.quizzes.ListQuizzes(ctx)
}

func (c *CatalogService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return c.quizzes.GetQuiz(ctx, quizID)
}

// RecordResult appends a result produced outside a live session (imports, replays).
func (c *CatalogService) RecordResult(ctx context.Context, result domain.QuizResult) error {
	return c.results.RecordResult(ctx, result)
}

func (c *CatalogService) GetResult(ctx context.Context, resultID string) (domain.QuizResult, error) {
	return c.results.FindResult(ctx, resultID)
}

// ListResults returns results in completion order, optionally restricted to one quiz.
func (c *CatalogService) ListResults(ctx context.Context, quizID string) ([]domain.QuizResult, error) {
	all, err := c.results.ListResults(ctx)
	if err != nil {
		return nil, err
	}
	if quizID == "" {
		return all, nil
	}
	filtered := make([]domain.QuizResult, 0, len(all))
	for _, r := range all {
		if r.QuizID == quizID {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// Summary aggregates the attempts of one quiz, or of all quizzes when quizID is empty.
func (c *CatalogService) Summary(ctx context.Context, quizID string) (domain.ResultSummary, error) {
	results, err := c.ListResults(ctx, quizID)
	if err != nil {
		return domain.ResultSummary{}, err
	}
	return Summarize(results), nil
}
