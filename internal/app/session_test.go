package app_test

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"study-quiz-service/internal/app"
	"study-quiz-service/internal/domain"
)

func TestFinalizeScoresAllCorrect(t *testing.T) {
	session := newTestSession(t, twoQuestionQuiz())

	mustState(t)(session.SelectAnswer(0, 1))
	mustState(t)(session.Advance())
	mustState(t)(session.SelectAnswer(1, 0))
	state := mustState(t)(session.Advance())

	if state.Status != domain.StatusFinalized || state.Result == nil {
		t.Fatalf("expected finalized with result, got %+v", state)
	}
	if state.Result.Score != 100 || state.Result.CorrectAnswers != 2 {
		t.Fatalf("expected 100/2, got %v/%d", state.Result.Score, state.Result.CorrectAnswers)
	}
	if !state.Result.Passed() {
		t.Fatalf("expected passed result")
	}
}

func TestTimeoutLeavesQuestionUnanswered(t *testing.T) {
	session := newTestSession(t, twoQuestionQuiz())

	mustState(t)(session.SelectAnswer(0, 1))
	mustState(t)(session.Advance())
	state := mustState(t)(session.TickBy(60))

	if state.Status != domain.StatusFinalized {
		t.Fatalf("expected timeout on the last question to finalize, got %s", state.Status)
	}
	r := state.Result
	if r.Score != 50 || r.CorrectAnswers != 1 {
		t.Fatalf("expected 50/1, got %v/%d", r.Score, r.CorrectAnswers)
	}
	if r.AnswerDetails[1].UserAnswer != domain.Unanswered || r.AnswerDetails[1].Correct {
		t.Fatalf("expected unanswered incorrect detail, got %+v", r.AnswerDetails[1])
	}
	if r.TimeTaken != 120 {
		t.Fatalf("expected full allowance used, got %d", r.TimeTaken)
	}
}

func TestStartRejectsMalformedQuiz(t *testing.T) {
	cases := map[string]func(*domain.Quiz){
		"no questions":      func(q *domain.Quiz) { q.Questions = nil },
		"single option":     func(q *domain.Quiz) { q.Questions[0].Options = []string{"only"} },
		"no options":        func(q *domain.Quiz) { q.Questions[1].Options = nil },
		"correct too large": func(q *domain.Quiz) { q.Questions[0].CorrectAnswer = 4 },
		"correct negative":  func(q *domain.Quiz) { q.Questions[0].CorrectAnswer = -1 },
		"no time allowance": func(q *domain.Quiz) { q.TimePerQuestion = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			quiz := twoQuestionQuiz()
			mutate(&quiz)
			if _, err := app.NewSession("s", "u", quiz, app.SessionOptions{}); !errors.Is(err, domain.ErrInvalidQuiz) {
				t.Fatalf("expected invalid quiz, got %v", err)
			}
		})
	}
}

func TestSelectAnswerOutOfRangeLeavesStateUnchanged(t *testing.T) {
	quiz := twoQuestionQuiz()
	quiz.Questions[0].Options = []string{"a", "b", "c"}
	session := newTestSession(t, quiz)
	before := session.State()

	if _, err := session.SelectAnswer(0, 5); !errors.Is(err, domain.ErrInvalidAnswer) {
		t.Fatalf("expected invalid answer, got %v", err)
	}
	if _, err := session.SelectAnswer(7, 0); !errors.Is(err, domain.ErrInvalidAnswer) {
		t.Fatalf("expected invalid answer for question index, got %v", err)
	}
	if !reflect.DeepEqual(before, session.State()) {
		t.Fatalf("expected state unchanged")
	}
}

func TestSelectAnswerLastWriteWins(t *testing.T) {
	session := newTestSession(t, twoQuestionQuiz())
	mustState(t)(session.SelectAnswer(0, 0))
	state := mustState(t)(session.SelectAnswer(0, 1))
	if state.Answers[0] != 1 || state.QuestionIndex != 0 {
		t.Fatalf("expected overwrite without advancing, got %+v", state)
	}
}

func TestAdvanceAfterFinalizeFails(t *testing.T) {
	finished := 0
	session, err := app.NewSession("s", "u", twoQuestionQuiz(), app.SessionOptions{
		OnFinish: func(domain.QuizResult) error { finished++; return nil },
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	mustState(t)(session.Advance())
	state := mustState(t)(session.Advance())
	if state.Status != domain.StatusFinalized {
		t.Fatalf("expected finalized, got %s", state.Status)
	}
	if _, err := session.Advance(); !errors.Is(err, domain.ErrSessionNotActive) {
		t.Fatalf("expected not active, got %v", err)
	}
	if _, err := session.Tick(); !errors.Is(err, domain.ErrSessionNotActive) {
		t.Fatalf("expected tick on finalized session to fail, got %v", err)
	}
	if finished != 1 {
		t.Fatalf("expected exactly one result, got %d", finished)
	}
}

func TestForcedAdvanceMatchesExplicitAdvance(t *testing.T) {
	quiz := twoQuestionQuiz()

	ticked := newTestSession(t, quiz)
	mustState(t)(ticked.SelectAnswer(0, 1))
	mustState(t)(ticked.TickBy(quiz.TimePerQuestion - 1))
	viaTick := mustState(t)(ticked.Tick())

	explicit := newTestSession(t, quiz)
	mustState(t)(explicit.SelectAnswer(0, 1))
	mustState(t)(explicit.TickBy(quiz.TimePerQuestion - 1))
	viaAdvance := mustState(t)(explicit.Advance())

	if !reflect.DeepEqual(viaTick, viaAdvance) {
		t.Fatalf("expected equal states\n tick:    %+v\n advance: %+v", viaTick, viaAdvance)
	}
	if viaTick.QuestionIndex != 1 || viaTick.Remaining != quiz.TimePerQuestion {
		t.Fatalf("expected second question with fresh allowance, got %+v", viaTick)
	}
}

func TestRetreatKeepsAnswers(t *testing.T) {
	session := newTestSession(t, twoQuestionQuiz())

	if state := mustState(t)(session.Retreat()); state.QuestionIndex != 0 {
		t.Fatalf("expected retreat at first question to be a no-op")
	}
	mustState(t)(session.SelectAnswer(0, 1))
	mustState(t)(session.Advance())
	mustState(t)(session.SelectAnswer(1, 1))
	mustState(t)(session.Tick())
	state := mustState(t)(session.Retreat())

	if state.QuestionIndex != 0 || state.Remaining != 60 {
		t.Fatalf("expected first question with reset allowance, got %+v", state)
	}
	if state.Answers[0] != 1 || state.Answers[1] != 1 {
		t.Fatalf("expected answers kept, got %v", state.Answers)
	}
}

func TestTimeTakenIsNetElapsed(t *testing.T) {
	session := newTestSession(t, twoQuestionQuiz())
	mustState(t)(session.Advance())
	mustState(t)(session.TickBy(15))
	state := mustState(t)(session.Advance())

	// 2 * 60 configured, 45 left on the last question
	if state.Result.TimeTaken != 75 {
		t.Fatalf("expected 75 seconds, got %d", state.Result.TimeTaken)
	}
}

func TestScoreMatchesCorrectRatio(t *testing.T) {
	quiz := domain.Quiz{ID: "ratio", TimePerQuestion: 10}
	for i := 0; i < 7; i++ {
		quiz.Questions = append(quiz.Questions, domain.Question{
			ID: string(rune('a' + i)), Options: []string{"x", "y", "z"}, CorrectAnswer: i % 3,
		})
	}

	for k := 0; k <= len(quiz.Questions); k++ {
		session := newTestSession(t, quiz)
		for i := 0; i < len(quiz.Questions); i++ {
			answer := (quiz.Questions[i].CorrectAnswer + 1) % 3
			if i < k {
				answer = quiz.Questions[i].CorrectAnswer
			}
			mustState(t)(session.SelectAnswer(i, answer))
		}
		state := mustState(t)(session.Finish())

		want := float64(k) / float64(len(quiz.Questions)) * 100
		if math.Abs(state.Result.Score-want) > 1e-9 {
			t.Fatalf("k=%d: expected %v, got %v", k, want, state.Result.Score)
		}
		for i, d := range state.Result.AnswerDetails {
			if d.Correct != (d.UserAnswer == quiz.Questions[i].CorrectAnswer) {
				t.Fatalf("detail %d inconsistent: %+v", i, d)
			}
		}
	}
}

func TestAbandonIsIdempotent(t *testing.T) {
	session := newTestSession(t, twoQuestionQuiz())

	state := session.Abandon()
	if state.Status != domain.StatusIdle || state.Result != nil {
		t.Fatalf("expected idle without result, got %+v", state)
	}
	if again := session.Abandon(); again.Status != domain.StatusIdle {
		t.Fatalf("expected second abandon to be a no-op")
	}
	if _, err := session.SelectAnswer(0, 0); !errors.Is(err, domain.ErrSessionNotActive) {
		t.Fatalf("expected abandoned session to reject answers, got %v", err)
	}
}

func TestSubscribeReceivesSnapshotsAndCloses(t *testing.T) {
	session := newTestSession(t, twoQuestionQuiz())
	ch, cancel := session.Subscribe()
	defer cancel()

	initial := <-ch
	if initial.Question == nil || initial.Question.ID != "q1" {
		t.Fatalf("expected first question in initial snapshot, got %+v", initial)
	}

	mustState(t)(session.Advance())
	if update := <-ch; update.QuestionIndex != 1 {
		t.Fatalf("expected index 1, got %d", update.QuestionIndex)
	}

	mustState(t)(session.Advance())
	final := <-ch
	if final.Status != domain.StatusFinalized || final.Question != nil {
		t.Fatalf("expected final snapshot without question, got %+v", final)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after finalize")
	}
}

func TestCountdownDrivesSessionToResult(t *testing.T) {
	quiz := twoQuestionQuiz()
	quiz.TimePerQuestion = 2

	results := make(chan domain.QuizResult, 1)
	session, err := app.NewSession("s", "u", quiz, app.SessionOptions{
		OnFinish: func(r domain.QuizResult) error { results <- r; return nil },
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	session.StartCountdown(5 * time.Millisecond)

	select {
	case r := <-results:
		if r.CorrectAnswers != 0 || r.TimeTaken != 4 {
			t.Fatalf("expected empty result using full time, got %+v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("countdown never finalized the session")
	}
	if session.InProgress() {
		t.Fatalf("expected session finalized")
	}
}

func TestAbandonStopsCountdown(t *testing.T) {
	quiz := twoQuestionQuiz()
	quiz.TimePerQuestion = 1

	session := newTestSession(t, quiz)
	session.StartCountdown(time.Millisecond)
	abandoned := session.Abandon()

	time.Sleep(20 * time.Millisecond)
	if state := session.State(); !reflect.DeepEqual(abandoned, state) {
		t.Fatalf("expected stale timer to leave ended session alone\n before: %+v\n after:  %+v", abandoned, state)
	}
	if session.InProgress() {
		t.Fatalf("expected session no longer in progress")
	}
}

func newTestSession(t *testing.T, quiz domain.Quiz) *app.Session {
	t.Helper()
	session, err := app.NewSession("session-1", "learner-1", quiz, app.SessionOptions{
		Now:   func() time.Time { return time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC) },
		NewID: func() string { return "result-1" },
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session
}

func mustState(t *testing.T) func(domain.SessionState, error) domain.SessionState {
	t.Helper()
	return func(state domain.SessionState, err error) domain.SessionState {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return state
	}
}

func twoQuestionQuiz() domain.Quiz {
	return domain.Quiz{
		ID:          "quiz-1",
		CourseID:    "course-1",
		Title:       "Calculus Fundamentals",
		Description: "Test your understanding of basic calculus concepts",
		Questions: []domain.Question{
			{
				ID:            "q1",
				Prompt:        "What is the derivative of f(x) = x²?",
				Options:       []string{"x", "2x", "2", "x²"},
				CorrectAnswer: 1,
			},
			{
				ID:            "q2",
				Prompt:        "What is the integral of f(x) = 2x?",
				Options:       []string{"x² + C", "x + C", "2x² + C", "x²/2 + C"},
				CorrectAnswer: 0,
			},
		},
		TimePerQuestion: 60,
	}
}
