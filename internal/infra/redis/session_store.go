package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"lingo-shooter/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions own timers and a live connection, so they stay in a local map.
//   - Redis marks session liveness as game:session:{id} -> userID, which lets
//     operators count players across instances. The marker expires after ttl
//     unless Start or an answer touches it again.
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

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.ID()), session.UserID(), s.ttl).Err()
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

// Touch rewrites the liveness marker with a fresh ttl, recreating it if it already expired.
func (s *SessionStore) Touch(sessionID string) {
	session, ok := s.Get(sessionID)
	if !ok {
		return
	}
	_ = s.client.Set(context.Background(), s.key(sessionID), session.UserID(), s.ttl).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "game:session:" + sessionID
}
