package app

import (
	"context"
	"fmt"

	"study-quiz-service/internal/domain"
)

const (
	quizMasterTarget = 5
	scholarTarget    = 3
	perfectScore     = 100.0
)

// ProjectAchievements derives the milestone list from courses and quiz results.
// The order is fixed so clients can render it as-is.
func ProjectAchievements(courses []domain.Course, results []domain.QuizResult) []domain.Achievement {
	var (
		startedLesson    bool
		completedCourses int
		passedQuizzes    int
		perfect          bool
	)
	for _, c := range courses {
		if c.CompletedLessons > 0 {
			startedLesson = true
		}
		if c.Progress >= 100 {
			completedCourses++
		}
	}
	for _, r := range results {
		if r.Passed() {
			passedQuizzes++
		}
		if r.Score >= perfectScore {
			perfect = true
		}
	}

	return []domain.Achievement{
		milestone("first-steps", "First Steps", "Complete your first lesson", boolCount(startedLesson), 1),
		milestone("quiz-master", "Quiz Master", "Pass 5 quizzes", passedQuizzes, quizMasterTarget),
		milestone("course-completer", "Course Completer", "Complete your first course", completedCourses, 1),
		milestone("perfectionist", "Perfectionist", "Score 100% on a quiz", boolCount(perfect), 1),
		milestone("scholar", "Scholar", "Complete 3 courses", completedCourses, scholarTarget),
	}
}

// Achievements projects milestones from the current progress and result history.
func (p *ProgressService) Achievements(ctx context.Context) ([]domain.Achievement, error) {
	results, err := p.results.ListResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return ProjectAchievements(p.progress.Courses(), results), nil
}

func milestone(id, title, description string, count, target int) domain.Achievement {
	return domain.Achievement{
		ID:          id,
		Title:       title,
		Description: description,
		Unlocked:    count >= target,
		Progress:    min(count, target),
		Target:      target,
	}
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
