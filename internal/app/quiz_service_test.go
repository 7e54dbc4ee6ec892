package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"study-quiz-service/internal/app"
	"study-quiz-service/internal/domain"
	"study-quiz-service/internal/infra/memory"
)

func TestStartAnswerAndRecord(t *testing.T) {
	ctx := context.Background()
	service, catalog := newTestService(t)

	state, err := service.StartQuiz(ctx, "u1", "quiz-1")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if state.Status != domain.StatusInProgress || state.Remaining != 60 || len(state.Answers) != 2 {
		t.Fatalf("unexpected initial state %+v", state)
	}
	for _, a := range state.Answers {
		if a != domain.Unanswered {
			t.Fatalf("expected unanswered sentinel, got %v", state.Answers)
		}
	}

	if _, err := service.SelectAnswer(ctx, "u1", 0, 1); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if _, err := service.Advance(ctx, "u1"); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if _, err := service.SelectAnswer(ctx, "u1", 1, 0); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	final, err := service.Advance(ctx, "u1")
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if final.Result == nil || final.Result.Score != 100 || final.Result.LearnerID != "u1" {
		t.Fatalf("expected perfect result for u1, got %+v", final.Result)
	}

	stored, err := catalog.GetResult(ctx, final.Result.ID)
	if err != nil {
		t.Fatalf("result not recorded: %v", err)
	}
	if stored.CorrectAnswers != 2 {
		t.Fatalf("expected 2 correct answers stored, got %d", stored.CorrectAnswers)
	}
}

func TestStartTwiceIsRejected(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.StartQuiz(ctx, "u1", "quiz-1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := service.StartQuiz(ctx, "u1", "quiz-1"); !errors.Is(err, domain.ErrSessionAlreadyActive) {
		t.Fatalf("expected already active, got %v", err)
	}

	// another learner is unaffected
	if _, err := service.StartQuiz(ctx, "u2", "quiz-1"); err != nil {
		t.Fatalf("second learner start failed: %v", err)
	}

	service.Abandon(ctx, "u1")
	if _, err := service.StartQuiz(ctx, "u1", "quiz-1"); err != nil {
		t.Fatalf("start after abandon failed: %v", err)
	}
}

func TestRetakeProducesIndependentResults(t *testing.T) {
	ctx := context.Background()
	service, catalog := newTestService(t)

	for i := 0; i < 2; i++ {
		if _, err := service.StartQuiz(ctx, "u1", "quiz-1"); err != nil {
			t.Fatalf("attempt %d start: %v", i, err)
		}
		if _, err := service.Finish(ctx, "u1"); err != nil {
			t.Fatalf("attempt %d finish: %v", i, err)
		}
	}

	results, err := catalog.ListResults(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 2 || results[0].ID == results[1].ID {
		t.Fatalf("expected two distinct results, got %+v", results)
	}
}

func TestUnknownLearnerAndQuiz(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.Advance(ctx, "ghost"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
	if _, err := service.StartQuiz(ctx, "u1", "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}

	// abandoning with nothing to abandon is fine
	service.Abandon(ctx, "ghost")
}

func TestStartWithInvalidQuiz(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	_, err := service.StartQuiz(ctx, "u1", "broken")
	if !errors.Is(err, domain.ErrInvalidQuiz) {
		t.Fatalf("expected invalid quiz, got %v", err)
	}
	if _, err := service.State(ctx, "u1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected no session after rejected start, got %v", err)
	}
}

func TestTickTimesOutToResult(t *testing.T) {
	ctx := context.Background()
	service, catalog := newTestService(t)

	if _, err := service.StartQuiz(ctx, "u1", "quiz-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.SelectAnswer(ctx, "u1", 0, 1); err != nil {
		t.Fatalf("answer: %v", err)
	}
	state, err := service.Tick(ctx, "u1", 120)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if state.Status != domain.StatusFinalized || state.Result.Score != 50 {
		t.Fatalf("expected finalized 50, got %+v", state)
	}

	summary, _ := catalog.Summary(ctx, "quiz-1")
	if summary.Attempts != 1 || summary.Passed != 0 {
		t.Fatalf("expected one failed attempt, got %+v", summary)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.StartQuiz(ctx, "u1", "quiz-1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	ch, cancel, err := service.Subscribe(ctx, "u1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	<-ch // initial snapshot

	if _, err := service.SelectAnswer(ctx, "u1", 0, 1); err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	update := <-ch
	if update.Answers[0] != 1 {
		t.Fatalf("expected recorded answer, got %+v", update.Answers)
	}
}

func TestWallClockCountdownRecordsResult(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewQuizCatalog(nil)
	quiz := sampleServiceQuiz()
	quiz.TimePerQuestion = 1
	_ = catalog.SetQuizzes(ctx, []domain.Quiz{quiz})
	results := memory.NewResultStore()
	service := app.NewQuizService(memory.NewSessionStore(), catalog, results, app.WithTickInterval(5*time.Millisecond))
	defer service.Shutdown()

	if _, err := service.StartQuiz(ctx, "u1", "quiz-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		list, _ := results.ListResults(ctx)
		if len(list) == 1 {
			if list[0].TimeTaken != 2 {
				t.Fatalf("expected full allowance, got %d", list[0].TimeTaken)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("countdown did not finalize the session")
}

func TestRecordFailureIsReported(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewQuizCatalog(nil)
	_ = catalog.SetQuizzes(ctx, []domain.Quiz{sampleServiceQuiz()})
	service := app.NewQuizService(memory.NewSessionStore(), catalog, failingResults{})

	if _, err := service.StartQuiz(ctx, "u1", "quiz-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	state, err := service.Finish(ctx, "u1")
	if err == nil {
		t.Fatalf("expected record failure to surface")
	}
	if state.Status != domain.StatusFinalized {
		t.Fatalf("expected session finalized regardless, got %s", state.Status)
	}
}

func TestAbandonRacingStartKeepsNewSession(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewQuizCatalog(nil)
	_ = catalog.SetQuizzes(ctx, []domain.Quiz{sampleServiceQuiz()})
	store := &racingStore{SessionStore: memory.NewSessionStore()}
	service := app.NewQuizService(store, catalog, memory.NewResultStore())

	if _, err := service.StartQuiz(ctx, "u1", "quiz-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	started := make(chan error, 1)
	store.beforeDelete = func() {
		go func() {
			_, err := service.StartQuiz(ctx, "u1", "quiz-1")
			started <- err
		}()
		// give the competing start a chance to run before the delete
		select {
		case err := <-started:
			started <- err
		case <-time.After(50 * time.Millisecond):
		}
	}
	service.Abandon(ctx, "u1")

	if err := <-started; err != nil {
		t.Fatalf("competing start: %v", err)
	}
	state, err := service.State(ctx, "u1")
	if err != nil {
		t.Fatalf("expected the new session to survive, got %v", err)
	}
	if state.Status != domain.StatusInProgress {
		t.Fatalf("expected in-progress session, got %s", state.Status)
	}
}

// racingStore runs beforeDelete once, ahead of the first Delete.
type racingStore struct {
	*memory.SessionStore
	once         sync.Once
	beforeDelete func()
}

func (s *racingStore) Delete(learnerID string) {
	s.once.Do(func() {
		if s.beforeDelete != nil {
			s.beforeDelete()
		}
	})
	s.SessionStore.Delete(learnerID)
}

type failingResults struct{}

func (failingResults) RecordResult(context.Context, domain.QuizResult) error {
	return fmt.Errorf("store down")
}
func (failingResults) FindResult(context.Context, string) (domain.QuizResult, error) {
	return domain.QuizResult{}, domain.ErrResultNotFound
}
func (failingResults) ListResults(context.Context) ([]domain.QuizResult, error) { return nil, nil }

func newTestService(t *testing.T) (*app.QuizService, *app.CatalogService) {
	t.Helper()
	catalog := memory.NewQuizCatalog(nil)
	broken := sampleServiceQuiz()
	broken.ID = "broken"
	broken.Questions[0].Options = []string{"only"}
	if err := catalog.SetQuizzes(context.Background(), []domain.Quiz{sampleServiceQuiz(), broken}); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	results := memory.NewResultStore()

	seq := 0
	service := app.NewQuizService(memory.NewSessionStore(), catalog, results,
		app.WithClock(func() time.Time { return time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC) }),
		app.WithIDGenerator(func() string { seq++; return fmt.Sprintf("id-%d", seq) }),
	)
	return service, app.NewCatalogService(catalog, results)
}

func sampleServiceQuiz() domain.Quiz {
	return twoQuestionQuiz()
}
