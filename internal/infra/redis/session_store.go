package redis

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"study-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions themselves live in a local map so the in-process countdown and
//     broadcast keep working.
//   - Redis holds a per-learner marker with the session id while the session is
//     in progress, so other instances and operators can see who is mid-quiz.
//     The marker is cleared when the session finalizes or is abandoned.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Get(learnerID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[learnerID]
	return session, ok
}

func (s *SessionStore) Put(learnerID string, session *app.Session) {
	s.mu.Lock()
	s.sessions[learnerID] = session
	s.mu.Unlock()

	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(learnerID), session.ID(), s.ttl).Err()
	go s.clearOnEnd(learnerID, session)
}

// clearMarker deletes the marker only while it still names the given session.
var clearMarker = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// clearOnEnd waits for the session to leave in_progress and then drops its marker.
func (s *SessionStore) clearOnEnd(learnerID string, session *app.Session) {
	updates, _ := session.Subscribe()
	for range updates {
	}
	if err := clearMarker.Run(context.Background(), s.client, []string{s.key(learnerID)}, session.ID()).Err(); err != nil {
		slog.Debug("clear session marker failed", "learner", learnerID, "session", session.ID(), "error", err)
	}
}

func (s *SessionStore) Delete(learnerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[learnerID]; !ok {
		return
	}
	delete(s.sessions, learnerID)
	_ = s.client.Del(context.Background(), s.key(learnerID)).Err()
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

func (s *SessionStore) key(learnerID string) string {
	return "quiz:session:" + learnerID
}
