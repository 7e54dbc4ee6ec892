package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"study-quiz-service/internal/domain"
)

// Source provides the catalog documents (fixtures, Postgres).
type Source interface {
	LoadQuizzes(ctx context.Context) ([]domain.Quiz, error)
	LoadCourses(ctx context.Context) ([]domain.Course, error)
	LoadLessons(ctx context.Context) ([]domain.Lesson, error)
}

// QuizSink receives the quiz catalog.
type QuizSink interface {
	SetQuizzes(ctx context.Context, quizzes []domain.Quiz) error
}

// ProgressSink receives courses and their lessons.
type ProgressSink interface {
	SetCourses(courses []domain.Course)
	SetLessonsForCourse(courseID string, lessons []domain.Lesson)
}

// Refresher copies the catalog source into the stores
type Refresher struct {
	source   Source
	quizzes  QuizSink
	progress ProgressSink
	interval time.Duration
}

// NewRefresher creates a refresher. interval <= 0 loads once and never again,
// since every refresh resets lesson progress to what the source says.
func NewRefresher(source Source, quizzes QuizSink, progress ProgressSink, interval time.Duration) *Refresher {
	return &Refresher{
		source:   source,
		quizzes:  quizzes,
		progress: progress,
		interval: interval,
	}
}

// Refresh performs one full load. Nothing is written unless every document loaded.
func (r *Refresher) Refresh(ctx context.Context) error {
	quizzes, err := r.source.LoadQuizzes(ctx)
	if err != nil {
		return fmt.Errorf("refresh quizzes: %w", err)
	}
	courses, err := r.source.LoadCourses(ctx)
	if err != nil {
		return fmt.Errorf("refresh courses: %w", err)
	}
	lessons, err := r.source.LoadLessons(ctx)
	if err != nil {
		return fmt.Errorf("refresh lessons: %w", err)
	}

	if err := r.quizzes.SetQuizzes(ctx, quizzes); err != nil {
		return fmt.Errorf("refresh quizzes: %w", err)
	}
	r.progress.SetCourses(courses)

	byCourse := make(map[string][]domain.Lesson, len(courses))
	for _, l := range lessons {
		byCourse[l.CourseID] = append(byCourse[l.CourseID], l)
	}
	for _, c := range courses {
		r.progress.SetLessonsForCourse(c.ID, byCourse[c.ID])
		delete(byCourse, c.ID)
	}
	for courseID, orphans := range byCourse {
		slog.Warn("lessons reference unknown course", "course", courseID, "count", len(orphans))
		r.progress.SetLessonsForCourse(courseID, orphans)
	}

	slog.Info("catalog refreshed",
		"quizzes", len(quizzes),
		"courses", len(courses),
		"lessons", len(lessons),
	)
	return nil
}

// Watch reloads on every tick until ctx is done; failures are logged and retried on the
// next tick. With no interval it returns at once.
func (r *Refresher) Watch(ctx context.Context) error {
	if r.interval <= 0 {
		return nil
	}

	slog.Info("catalog refresher started", "interval", r.interval)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("catalog refresher stopped")
			return nil
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				slog.Error("catalog refresh failed", "error", err)
			}
		}
	}
}
