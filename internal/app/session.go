package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"study-quiz-service/internal/domain"
)

// SessionOptions customizes how a session stamps and hands off its result.
type SessionOptions struct {
	Now   func() time.Time
	NewID func() string
	// OnFinish runs exactly once, outside the session lock, when the attempt finalizes.
	OnFinish func(domain.QuizResult) error
}

// Session drives a single quiz attempt from the first question to a scored result.
// All transitions serialize on mu; nothing mutates once the status leaves in_progress.
type Session struct {
	id        string
	learnerID string
	quiz      domain.Quiz
	now       func() time.Time
	newID     func() string
	onFinish  func(domain.QuizResult) error

	mu          sync.Mutex
	status      domain.SessionStatus
	index       int
	answers     []int
	remaining   int
	result      *domain.QuizResult
	timer       *countdown
	subscribers map[chan domain.SessionState]struct{}
}

// NewSession validates the quiz and opens an in-progress attempt on its first question.
func NewSession(id, learnerID string, quiz domain.Quiz, opts SessionOptions) (*Session, error) {
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return fmt.Sprintf("%d", opts.Now().UnixNano()) }
	}

	answers := make([]int, len(quiz.Questions))
	for i := range answers {
		answers[i] = domain.Unanswered
	}

	return &Session{
		id:          id,
		learnerID:   learnerID,
		quiz:        quiz,
		now:         opts.Now,
		newID:       opts.NewID,
		onFinish:    opts.OnFinish,
		status:      domain.StatusInProgress,
		answers:     answers,
		remaining:   quiz.TimePerQuestion,
		subscribers: make(map[chan domain.SessionState]struct{}),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// QuizID returns the id of the quiz being played.
func (s *Session) QuizID() string { return s.quiz.ID }

// InProgress reports whether the session still accepts transitions.
func (s *Session) InProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == domain.StatusInProgress
}

// State returns the current snapshot.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Result returns the scored result once the session has finalized.
func (s *Session) Result() (domain.QuizResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.QuizResult{}, false
	}
	return *s.result, true
}

// SelectAnswer records optionIndex for questionIndex without moving. Last write wins.
func (s *Session) SelectAnswer(questionIndex, optionIndex int) (domain.SessionState, error) {
	return s.apply(func() error {
		if questionIndex < 0 || questionIndex >= len(s.quiz.Questions) {
			return fmt.Errorf("%w: question index %d out of range", domain.ErrInvalidAnswer, questionIndex)
		}
		options := s.quiz.Questions[questionIndex].Options
		if optionIndex < 0 || optionIndex >= len(options) {
			return fmt.Errorf("%w: option %d out of range for question %d", domain.ErrInvalidAnswer, optionIndex, questionIndex)
		}
		s.answers[questionIndex] = optionIndex
		return nil
	})
}

// Advance moves to the next question, or finalizes when already on the last one.
func (s *Session) Advance() (domain.SessionState, error) {
	return s.apply(func() error {
		s.advanceLocked()
		return nil
	})
}

// Retreat moves back one question; it is a no-op on the first question.
func (s *Session) Retreat() (domain.SessionState, error) {
	return s.apply(func() error {
		if s.index > 0 {
			s.index--
			s.remaining = s.quiz.TimePerQuestion
		}
		return nil
	})
}

// Tick consumes one second of the active question's allowance.
func (s *Session) Tick() (domain.SessionState, error) {
	return s.TickBy(1)
}

// TickBy applies n ticks, stopping early once the session finalizes.
func (s *Session) TickBy(n int) (domain.SessionState, error) {
	return s.apply(func() error {
		for i := 0; i < n && s.status == domain.StatusInProgress; i++ {
			s.remaining--
			if s.remaining <= 0 {
				s.remaining = 0
				s.advanceLocked()
			}
		}
		return nil
	})
}

// Finish scores the attempt immediately, wherever the learner currently is.
func (s *Session) Finish() (domain.SessionState, error) {
	return s.apply(func() error {
		s.finalizeLocked()
		return nil
	})
}

// Abandon discards the attempt without a result. Calling it on an ended session does nothing.
func (s *Session) Abandon() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != domain.StatusInProgress {
		return s.snapshotLocked()
	}
	s.status = domain.StatusIdle
	state := s.broadcastLocked()
	s.endLocked()
	return state
}

// StartCountdown ticks the session every interval until it leaves in_progress.
// A non-positive interval leaves ticking to the caller.
func (s *Session) StartCountdown(interval time.Duration) {
	if interval <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != domain.StatusInProgress || s.timer != nil {
		return
	}
	s.timer = startCountdown(interval, func() bool {
		state, err := s.Tick()
		if err != nil && !errors.Is(err, domain.ErrSessionNotActive) {
			slog.Error("countdown tick failed", "session", s.id, "learner", s.learnerID, "error", err)
		}
		return state.Status == domain.StatusInProgress
	})
}

// StopCountdown cancels the wall-clock driver, if any, without touching session state.
func (s *Session) StopCountdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.cancel()
		s.timer = nil
	}
}

// Subscribe returns a channel of snapshots, seeded with the current one.
// The channel is closed when the session ends; cancel is safe to call at any time.
func (s *Session) Subscribe() (<-chan domain.SessionState, func()) {
	ch := make(chan domain.SessionState, 8)

	s.mu.Lock()
	ch <- s.snapshotLocked()
	if s.status != domain.StatusInProgress {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// apply runs op on an in-progress session, publishes the new state and hands off a
// result produced by the transition.
func (s *Session) apply(op func() error) (domain.SessionState, error) {
	s.mu.Lock()
	if s.status != domain.StatusInProgress {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return state, domain.ErrSessionNotActive
	}
	if err := op(); err != nil {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return state, err
	}
	state := s.broadcastLocked()
	var finished *domain.QuizResult
	if s.status == domain.StatusFinalized {
		finished = s.result
		s.endLocked()
	}
	s.mu.Unlock()

	if finished != nil && s.onFinish != nil {
		if err := s.onFinish(*finished); err != nil {
			return state, fmt.Errorf("hand off result %s: %w", finished.ID, err)
		}
	}
	return state, nil
}

func (s *Session) advanceLocked() {
	if s.index >= len(s.quiz.Questions)-1 {
		s.finalizeLocked()
		return
	}
	s.index++
	s.remaining = s.quiz.TimePerQuestion
}

func (s *Session) finalizeLocked() {
	result := ProjectResult(s.quiz, s.answers, s.remaining, ResultMeta{
		ID:        s.newID(),
		LearnerID: s.learnerID,
		Date:      s.now(),
	})
	s.result = &result
	s.status = domain.StatusFinalized
}

// endLocked releases the timer and observers once the session left in_progress.
func (s *Session) endLocked() {
	if s.timer != nil {
		s.timer.cancel()
		s.timer = nil
	}
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) broadcastLocked() domain.SessionState {
	state := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- state:
		default:
			// drop the stale snapshot so a slow reader never blocks a transition
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
	return state
}

func (s *Session) snapshotLocked() domain.SessionState {
	answers := make([]int, len(s.answers))
	copy(answers, s.answers)

	state := domain.SessionState{
		SessionID:      s.id,
		LearnerID:      s.learnerID,
		QuizID:         s.quiz.ID,
		Status:         s.status,
		QuestionIndex:  s.index,
		TotalQuestions: len(s.quiz.Questions),
		Remaining:      s.remaining,
		Answers:        answers,
	}
	if s.status == domain.StatusInProgress {
		q := s.quiz.Questions[s.index]
		options := make([]string, len(q.Options))
		copy(options, q.Options)
		state.Question = &domain.QuestionView{ID: q.ID, Prompt: q.Prompt, Options: options}
	}
	if s.result != nil {
		result := *s.result
		state.Result = &result
	}
	return state
}
