package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions tracks logged-in users by opaque token. Sessions are auth
// plumbing only; nothing about the catalog lives here.
type Sessions struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	tokens map[string]session
}

type session struct {
	username string
	expires  time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{
		ttl:    ttl,
		now:    time.Now,
		tokens: make(map[string]session),
	}
}

// Create issues a fresh token for username.
func (s *Sessions) Create(username string) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = session{username: username, expires: s.now().Add(s.ttl)}
	return token
}

// Lookup resolves a token to its username. Expired tokens are pruned
// on access.
func (s *Sessions) Lookup(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.tokens[token]
	if !ok {
		return "", false
	}
	if s.now().After(sess.expires) {
		delete(s.tokens, token)
		return "", false
	}
	return sess.username, true
}

// Revoke drops a token on logout. Unknown tokens are a no-op.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}
