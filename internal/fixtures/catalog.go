// Package fixtures is the built-in catalog used when no Postgres source is configured.
package fixtures

import (
	"context"
	"fmt"

	"study-quiz-service/internal/domain"
)

// Catalog serves a fixed set of quizzes, courses and lessons. Every call returns fresh copies.
type Catalog struct{}

func New() *Catalog {
	return &Catalog{}
}

func (c *Catalog) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	for _, q := range quizzes() {
		if q.ID == quizID {
			return q, nil
		}
	}
	return domain.Quiz{}, fmt.Errorf("%w: %s", domain.ErrQuizNotFound, quizID)
}

func (c *Catalog) LoadQuizzes(_ context.Context) ([]domain.Quiz, error) {
	return quizzes(), nil
}

func (c *Catalog) LoadCourses(_ context.Context) ([]domain.Course, error) {
	return courses(), nil
}

func (c *Catalog) LoadLessons(_ context.Context) ([]domain.Lesson, error) {
	return lessons(), nil
}

// LoadReminders returns the default study reminders. The catalog sources carry none.
func (c *Catalog) LoadReminders(_ context.Context) ([]domain.StudyReminder, error) {
	return reminders(), nil
}

func quizzes() []domain.Quiz {
	return []domain.Quiz{
		{
			ID:          "quiz-1",
			CourseID:    "course-1",
			Title:       "Calculus Fundamentals",
			Description: "Test your understanding of basic calculus concepts",
			Questions: []domain.Question{
				{
					ID:            "q1-1",
					Prompt:        "What is the derivative of f(x) = x²?",
					Options:       []string{"f'(x) = x", "f'(x) = 2x", "f'(x) = 2", "f'(x) = x²"},
					CorrectAnswer: 1,
					Explanation:   "The derivative of x² is 2x using the power rule.",
				},
				{
					ID:            "q1-2",
					Prompt:        "What is the integral of f(x) = 2x?",
					Options:       []string{"F(x) = x² + C", "F(x) = x + C", "F(x) = 2x² + C", "F(x) = x²/2 + C"},
					CorrectAnswer: 0,
					Explanation:   "The integral of 2x is x² + C.",
				},
			},
			TimePerQuestion: 60,
		},
	}
}

// courses carry a stale progress figure for course-1; the progress store recomputes it.
func courses() []domain.Course {
	return []domain.Course{
		{
			ID:               "course-1",
			Title:            "Advanced Mathematics",
			Description:      "Master calculus, linear algebra, and statistics for competitive exams",
			Thumbnail:        "https://example.com/math.jpg",
			Category:         "Mathematics",
			Progress:         35,
			TotalLessons:     12,
			CompletedLessons: 4,
		},
		{
			ID:               "course-2",
			Title:            "Physics Fundamentals",
			Description:      "Learn mechanics, electromagnetism, and modern physics concepts",
			Thumbnail:        "https://example.com/physics.jpg",
			Category:         "Science",
			Progress:         75,
			TotalLessons:     8,
			CompletedLessons: 6,
		},
		{
			ID:               "course-3",
			Title:            "English Literature",
			Description:      "Explore classic and contemporary literature with in-depth analysis",
			Thumbnail:        "https://example.com/literature.jpg",
			Category:         "Language",
			Progress:         50,
			TotalLessons:     10,
			CompletedLessons: 5,
		},
	}
}

func lessons() []domain.Lesson {
	return []domain.Lesson{
		{
			ID:          "lesson-1-1",
			CourseID:    "course-1",
			Title:       "Introduction to Calculus",
			Description: "Understanding the fundamentals of differentiation and integration",
			VideoURL:    "https://example.com/videos/calculus-intro.mp4",
			Summary:     "This lesson covers the basic concepts of calculus including limits, derivatives, and integrals.",
			Notes:       "Remember that the derivative measures the rate of change.",
			Completed:   true,
			Duration:    45,
		},
		{
			ID:          "lesson-1-2",
			CourseID:    "course-1",
			Title:       "Advanced Calculus",
			Description: "Complex calculus problems and applications",
			VideoURL:    "https://example.com/videos/advanced-calculus.mp4",
			Summary:     "Advanced calculus techniques and real-world applications.",
			Completed:   false,
			Duration:    60,
		},
	}
}

func reminders() []domain.StudyReminder {
	return []domain.StudyReminder{
		{ID: "reminder-1", Title: "Morning Study Session", Time: "08:00", Days: []string{"mon", "tue", "wed", "thu", "fri"}, Enabled: true},
		{ID: "reminder-2", Title: "Afternoon Review", Time: "15:30", Days: []string{"mon", "wed", "fri"}, Enabled: true},
		{ID: "reminder-3", Title: "Weekend Catch-up", Time: "10:00", Days: []string{"sat", "sun"}},
	}
}
