package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"study-quiz-service/internal/domain"
)

// CatalogLoader reads quiz, course and lesson JSONB documents from Postgres.
// Rows come back ordered by id, which is the catalog order.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, fmt.Errorf("%w: %s", domain.ErrQuizNotFound, quizID)
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	if quiz.ID == "" {
		quiz.ID = quizID
	}
	return quiz, nil
}

func (l *CatalogLoader) LoadQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	var out []domain.Quiz
	err := l.each(ctx, `SELECT id, data FROM quizzes ORDER BY id`, func(id string, raw []byte) error {
		var quiz domain.Quiz
		if err := json.Unmarshal(raw, &quiz); err != nil {
			return fmt.Errorf("unmarshal quiz %s: %w", id, err)
		}
		if quiz.ID == "" {
			quiz.ID = id
		}
		out = append(out, quiz)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load quizzes: %w", err)
	}
	return out, nil
}

func (l *CatalogLoader) LoadCourses(ctx context.Context) ([]domain.Course, error) {
	var out []domain.Course
	err := l.each(ctx, `SELECT id, data FROM courses ORDER BY id`, func(id string, raw []byte) error {
		var course domain.Course
		if err := json.Unmarshal(raw, &course); err != nil {
			return fmt.Errorf("unmarshal course %s: %w", id, err)
		}
		if course.ID == "" {
			course.ID = id
		}
		out = append(out, course)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	return out, nil
}

// LoadLessons returns every lesson; the course_id column wins over the document's courseId.
func (l *CatalogLoader) LoadLessons(ctx context.Context) ([]domain.Lesson, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, course_id, data FROM lessons ORDER BY course_id, id`)
	if err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}
	defer rows.Close()

	var out []domain.Lesson
	for rows.Next() {
		var (
			id, courseID string
			raw          []byte
		)
		if err := rows.Scan(&id, &courseID, &raw); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		var lesson domain.Lesson
		if err := json.Unmarshal(raw, &lesson); err != nil {
			return nil, fmt.Errorf("unmarshal lesson %s: %w", id, err)
		}
		lesson.ID = id
		lesson.CourseID = courseID
		out = append(out, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}
	return out, nil
}

func (l *CatalogLoader) each(ctx context.Context, query string, fn func(id string, raw []byte) error) error {
	rows, err := l.pool.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return err
		}
		if err := fn(id, raw); err != nil {
			return err
		}
	}
	return rows.Err()
}
