package app

import (
	"time"

	"study-quiz-service/internal/domain"
)

// ResultMeta carries the identity fields of a result that scoring does not derive.
type ResultMeta struct {
	ID        string
	LearnerID string
	Date      time.Time
}

// ProjectResult turns the captured answers of a finished attempt into a QuizResult.
// remaining is the unused allowance on the question that was active when the attempt ended.
func ProjectResult(quiz domain.Quiz, answers []int, remaining int, meta ResultMeta) domain.QuizResult {
	total := len(quiz.Questions)
	details := make([]domain.AnswerDetail, total)
	correct := 0
	for i, question := range quiz.Questions {
		answer := domain.Unanswered
		if i < len(answers) {
			answer = answers[i]
		}
		ok := answer == question.CorrectAnswer
		if ok {
			correct++
		}
		details[i] = domain.AnswerDetail{
			QuestionID: question.ID,
			UserAnswer: answer,
			Correct:    ok,
		}
	}

	score := 0.0
	if total > 0 {
		score = float64(correct) / float64(total) * 100
	}

	timeTaken := quiz.TotalTime() - remaining
	if timeTaken < 0 {
		timeTaken = 0
	}

	return domain.QuizResult{
		ID:             meta.ID,
		QuizID:         quiz.ID,
		LearnerID:      meta.LearnerID,
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
		TimeTaken:      timeTaken,
		Date:           meta.Date,
		AnswerDetails:  details,
	}
}

// Summarize aggregates attempts; an empty slice yields the zero summary.
func Summarize(results []domain.QuizResult) domain.ResultSummary {
	var summary domain.ResultSummary
	if len(results) == 0 {
		return summary
	}
	sum := 0.0
	for _, r := range results {
		sum += r.Score
		if r.Score > summary.BestScore {
			summary.BestScore = r.Score
		}
		if r.Passed() {
			summary.Passed++
		}
	}
	summary.Attempts = len(results)
	summary.AverageScore = sum / float64(len(results))
	summary.PassRate = float64(summary.Passed) / float64(len(results)) * 100
	return summary
}
