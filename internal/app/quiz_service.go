package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"study-quiz-service/internal/domain"
)

// SessionRepository abstracts where live quiz sessions are kept (in-memory, Redis-marked, etc).
// Sessions are keyed by learner; each learner has at most one.
type SessionRepository interface {
	Get(learnerID string) (*Session, bool)
	Put(learnerID string, session *Session)
	Delete(learnerID string)
	All() []*Session
}

// QuizCatalog holds quiz definitions.
type QuizCatalog interface {
	SetQuizzes(ctx context.Context, quizzes []domain.Quiz) error
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// ResultRepository is the append-only quiz result history, kept in completion order.
type ResultRepository interface {
	RecordResult(ctx context.Context, result domain.QuizResult) error
	FindResult(ctx context.Context, resultID string) (domain.QuizResult, error)
	ListResults(ctx context.Context) ([]domain.QuizResult, error)
}

// Option configures a QuizService.
type Option func(*QuizService)

// WithClock overrides the timestamp source for results.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithIDGenerator overrides how session and result ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *QuizService) { s.newID = newID }
}

// WithTickInterval makes every new session tick itself on a wall-clock timer.
// Zero (the default) leaves ticking to the caller.
func WithTickInterval(interval time.Duration) Option {
	return func(s *QuizService) { s.tickInterval = interval }
}

// QuizService contains the quiz attempt use cases.
type QuizService struct {
	sessions     SessionRepository
	quizzes      QuizCatalog
	results      ResultRepository
	now          func() time.Time
	newID        func() string
	tickInterval time.Duration

	// serializes the one-active-session check with session creation
	startMu sync.Mutex
}

func NewQuizService(store SessionRepository, quizzes QuizCatalog, results ResultRepository, opts ...Option) *QuizService {
	s := &QuizService{
		sessions: store,
		quizzes:  quizzes,
		results:  results,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartQuiz looks the quiz up in the catalog and opens a session for the learner.
func (s *QuizService) StartQuiz(ctx context.Context, learnerID, quizID string) (domain.SessionState, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return s.Start(ctx, learnerID, quiz)
}

// Start opens a session for an already loaded quiz. A finalized previous session is replaced;
// an in-progress one is not.
func (s *QuizService) Start(_ context.Context, learnerID string, quiz domain.Quiz) (domain.SessionState, error) {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if existing, ok := s.sessions.Get(learnerID); ok && existing.InProgress() {
		return domain.SessionState{}, fmt.Errorf("%w: learner %s is taking quiz %s", domain.ErrSessionAlreadyActive, learnerID, existing.QuizID())
	}

	session, err := NewSession(s.newID(), learnerID, quiz, SessionOptions{
		Now:      s.now,
		NewID:    s.newID,
		OnFinish: s.recordResult,
	})
	if err != nil {
		slog.Warn("rejected quiz definition", "quiz", quiz.ID, "learner", learnerID, "error", err)
		return domain.SessionState{}, err
	}

	s.sessions.Put(learnerID, session)
	session.StartCountdown(s.tickInterval)

	slog.Info("quiz session started",
		"session", session.ID(),
		"learner", learnerID,
		"quiz", quiz.ID,
		"questions", len(quiz.Questions),
	)
	return session.State(), nil
}

// SelectAnswer records an option for a question of the learner's active session.
func (s *QuizService) SelectAnswer(_ context.Context, learnerID string, questionIndex, optionIndex int) (domain.SessionState, error) {
	session, err := s.session(learnerID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.SelectAnswer(questionIndex, optionIndex)
}

// Advance moves the learner to the next question, finalizing on the last one.
func (s *QuizService) Advance(_ context.Context, learnerID string) (domain.SessionState, error) {
	session, err := s.session(learnerID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.Advance()
}

// Retreat moves the learner back one question.
func (s *QuizService) Retreat(_ context.Context, learnerID string) (domain.SessionState, error) {
	session, err := s.session(learnerID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.Retreat()
}

// Tick consumes seconds of the active question's allowance on behalf of an external scheduler.
func (s *QuizService) Tick(_ context.Context, learnerID string, seconds int) (domain.SessionState, error) {
	session, err := s.session(learnerID)
	if err != nil {
		return domain.SessionState{}, err
	}
	if seconds < 1 {
		seconds = 1
	}
	return session.TickBy(seconds)
}

// Finish scores the learner's attempt immediately.
func (s *QuizService) Finish(_ context.Context, learnerID string) (domain.SessionState, error) {
	session, err := s.session(learnerID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.Finish()
}

// Abandon drops the learner's session without a result. Unknown learners are a no-op.
func (s *QuizService) Abandon(_ context.Context, learnerID string) {
	// a concurrent Start must not slip its session in before the Delete below
	s.startMu.Lock()
	defer s.startMu.Unlock()

	session, ok := s.sessions.Get(learnerID)
	if !ok {
		return
	}
	if session.InProgress() {
		slog.Info("quiz session abandoned", "session", session.ID(), "learner", learnerID, "quiz", session.QuizID())
	}
	session.Abandon()
	s.sessions.Delete(learnerID)
}

// State returns the learner's current session snapshot.
func (s *QuizService) State(_ context.Context, learnerID string) (domain.SessionState, error) {
	session, err := s.session(learnerID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.State(), nil
}

// Subscribe returns a channel that receives session snapshots for a learner.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, learnerID string) (<-chan domain.SessionState, func(), error) {
	session, err := s.session(learnerID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Shutdown stops every session countdown so no timer outlives the service.
func (s *QuizService) Shutdown() {
	for _, session := range s.sessions.All() {
		session.StopCountdown()
	}
}

func (s *QuizService) session(learnerID string) (*Session, error) {
	session, ok := s.sessions.Get(learnerID)
	if !ok {
		return nil, fmt.Errorf("%w: learner %s", domain.ErrSessionNotFound, learnerID)
	}
	return session, nil
}

// recordResult appends a finalized result to the history. It may run on the countdown
// goroutine, so it carries its own deadline.
func (s *QuizService) recordResult(result domain.QuizResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.results.RecordResult(ctx, result); err != nil {
		slog.Error("failed to record quiz result", "result", result.ID, "quiz", result.QuizID, "error", err)
		return err
	}
	slog.Info("quiz session finalized",
		"result", result.ID,
		"learner", result.LearnerID,
		"quiz", result.QuizID,
		"score", result.Score,
		"passed", result.Passed(),
		"time_taken", result.TimeTaken,
	)
	return nil
}
