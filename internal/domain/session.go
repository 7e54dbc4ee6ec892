package domain

// SessionStatus is the lifecycle state of a quiz attempt.
type SessionStatus string

const (
	StatusIdle       SessionStatus = "idle"
	StatusInProgress SessionStatus = "in_progress"
	StatusFinalized  SessionStatus = "finalized"
)

// QuestionView is the learner-facing part of a question; the correct answer stays hidden.
type QuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

// SessionState is a point-in-time snapshot of a quiz session, published to observers.
type SessionState struct {
	SessionID      string        `json:"sessionId"`
	LearnerID      string        `json:"learnerId"`
	QuizID         string        `json:"quizId"`
	Status         SessionStatus `json:"status"`
	QuestionIndex  int           `json:"questionIndex"`
	TotalQuestions int           `json:"totalQuestions"`
	Remaining      int           `json:"remaining"`
	Answers        []int         `json:"answers"`
	Question       *QuestionView `json:"question,omitempty"`
	Result         *QuizResult   `json:"result,omitempty"`
}

// Well-known preference keys.
const (
	PrefUser         = "user"
	PrefHasOnboarded = "hasOnboarded"
	PrefTheme        = "theme"
)
