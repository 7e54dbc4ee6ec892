package domain

import (
	"fmt"
	"time"
)

// Unanswered marks a question the learner never picked an option for.
const Unanswered = -1

// PassingScore is the minimum score (inclusive) for a passed attempt.
const PassingScore = 70.0

// Question models a single-choice question; CorrectAnswer indexes Options.
type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Quiz is an immutable, ordered collection of questions sharing one per-question time limit.
type Quiz struct {
	ID              string     `json:"id"`
	CourseID        string     `json:"courseId,omitempty"`
	LessonID        string     `json:"lessonId,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Questions       []Question `json:"questions"`
	TimePerQuestion int        `json:"timePerQuestion"` // seconds
}

// EstimatedMinutes is the full time allowance rounded up to whole minutes.
func (q Quiz) EstimatedMinutes() int {
	total := len(q.Questions) * q.TimePerQuestion
	return (total + 59) / 60
}

// TotalTime is the configured allowance across all questions, in seconds.
func (q Quiz) TotalTime() int {
	return len(q.Questions) * q.TimePerQuestion
}

// Validate reports ErrInvalidQuiz when the quiz cannot drive a session.
func (q Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: quiz %q has no questions", ErrInvalidQuiz, q.ID)
	}
	if q.TimePerQuestion <= 0 {
		return fmt.Errorf("%w: quiz %q has non-positive time per question", ErrInvalidQuiz, q.ID)
	}
	for i, question := range q.Questions {
		if len(question.Options) < 2 {
			return fmt.Errorf("%w: question %d (%s) has %d options", ErrInvalidQuiz, i, question.ID, len(question.Options))
		}
		if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
			return fmt.Errorf("%w: question %d (%s) correct answer %d out of range", ErrInvalidQuiz, i, question.ID, question.CorrectAnswer)
		}
	}
	return nil
}

// AnswerDetail records what the learner picked for one question.
type AnswerDetail struct {
	QuestionID string `json:"questionId"`
	UserAnswer int    `json:"userAnswer"`
	Correct    bool   `json:"correct"`
}

// QuizResult is created once when a session finalizes and never mutated afterwards.
type QuizResult struct {
	ID             string         `json:"id"`
	QuizID         string         `json:"quizId"`
	LearnerID      string         `json:"learnerId,omitempty"`
	Score          float64        `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	CorrectAnswers int            `json:"correctAnswers"`
	TimeTaken      int            `json:"timeTaken"` // seconds
	Date           time.Time      `json:"date"`
	AnswerDetails  []AnswerDetail `json:"answerDetails"`
}

// Passed reports whether the score reaches PassingScore.
func (r QuizResult) Passed() bool {
	return r.Score >= PassingScore
}

// ResultSummary aggregates a set of results.
type ResultSummary struct {
	Attempts     int     `json:"attempts"`
	Passed       int     `json:"passed"`
	AverageScore float64 `json:"averageScore"`
	BestScore    float64 `json:"bestScore"`
	PassRate     float64 `json:"passRate"`
}
