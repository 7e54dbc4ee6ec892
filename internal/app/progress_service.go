package app

import (
	"context"
	"fmt"
	"log/slog"

	"study-quiz-service/internal/domain"
)

// ProgressRepository holds courses and lessons. Every mutation keeps
// 0 <= CompletedLessons <= TotalLessons and Progress derived from the two.
type ProgressRepository interface {
	SetCourses(courses []domain.Course)
	SetLessonsForCourse(courseID string, lessons []domain.Lesson)
	MarkLessonCompleted(lessonID string) (domain.Lesson, bool)
	UpdateLessonNotes(lessonID, notes string) (domain.Lesson, bool)
	Courses() []domain.Course
	Course(courseID string) (domain.Course, bool)
	Lessons(courseID string) []domain.Lesson
	Lesson(lessonID string) (domain.Lesson, bool)
}

// ProgressService wraps the progress store with lookup errors, leniency logging and the overview.
type ProgressService struct {
	progress ProgressRepository
	results  ResultRepository
}

func NewProgressService(progress ProgressRepository, results ResultRepository) *ProgressService {
	return &ProgressService{progress: progress, results: results}
}

func (p *ProgressService) SetCourses(courses []domain.Course) {
	p.progress.SetCourses(courses)
}

func (p *ProgressService) SetLessonsForCourse(courseID string, lessons []domain.Lesson) {
	p.progress.SetLessonsForCourse(courseID, lessons)
}

// MarkLessonCompleted completes a lesson. Unknown ids are ignored with a warning;
// ok tells the caller whether anything matched.
func (p *ProgressService) MarkLessonCompleted(lessonID string) (domain.Lesson, bool) {
	lesson, ok := p.progress.MarkLessonCompleted(lessonID)
	if !ok {
		slog.Warn("mark completed on unknown lesson ignored", "lesson", lessonID)
		return domain.Lesson{}, false
	}
	if _, found := p.progress.Course(lesson.CourseID); !found {
		slog.Warn("completed lesson has no owning course", "lesson", lessonID, "course", lesson.CourseID)
	}
	return lesson, true
}

// UpdateLessonNotes replaces a lesson's notes. Unknown ids are ignored with a warning.
func (p *ProgressService) UpdateLessonNotes(lessonID, notes string) (domain.Lesson, bool) {
	lesson, ok := p.progress.UpdateLessonNotes(lessonID, notes)
	if !ok {
		slog.Warn("notes update on unknown lesson ignored", "lesson", lessonID)
	}
	return lesson, ok
}

func (p *ProgressService) Courses() []domain.Course {
	return p.progress.Courses()
}

func (p *ProgressService) Course(courseID string) (domain.Course, error) {
	course, ok := p.progress.Course(courseID)
	if !ok {
		return domain.Course{}, fmt.Errorf("%w: %s", domain.ErrCourseNotFound, courseID)
	}
	return course, nil
}

func (p *ProgressService) Lessons(courseID string) ([]domain.Lesson, error) {
	if _, ok := p.progress.Course(courseID); !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCourseNotFound, courseID)
	}
	return p.progress.Lessons(courseID), nil
}

func (p *ProgressService) Lesson(lessonID string) (domain.Lesson, error) {
	lesson, ok := p.progress.Lesson(lessonID)
	if !ok {
		return domain.Lesson{}, fmt.Errorf("%w: %s", domain.ErrLessonNotFound, lessonID)
	}
	return lesson, nil
}

// Overview rolls up lesson completion across courses and the quiz history.
func (p *ProgressService) Overview(ctx context.Context) (domain.ProgressOverview, error) {
	courses := p.progress.Courses()
	overview := domain.ProgressOverview{Courses: len(courses)}
	for _, c := range courses {
		overview.TotalLessons += c.TotalLessons
		overview.CompletedLessons += c.CompletedLessons
	}
	overview.OverallProgress = domain.ProgressPercent(overview.CompletedLessons, overview.TotalLessons)

	results, err := p.results.ListResults(ctx)
	if err != nil {
		return domain.ProgressOverview{}, fmt.Errorf("list results: %w", err)
	}
	summary := Summarize(results)
	overview.QuizzesTaken = summary.Attempts
	overview.AverageQuizScore = summary.AverageScore
	overview.PassRate = summary.PassRate
	return overview, nil
}
