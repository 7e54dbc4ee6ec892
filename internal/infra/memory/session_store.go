package memory

import (
	"sync"

	"study-quiz-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository, keyed by learner.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Get(learnerID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[learnerID]
	return session, ok
}

// Put replaces whatever session the learner had.
func (s *SessionStore) Put(learnerID string, session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[learnerID] = session
}

func (s *SessionStore) Delete(learnerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, learnerID)
}

func (s *SessionStore) All() []*app.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*app.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}
