// Package session holds the in-memory admin session store. A session is a
// random token with an expiry; it exists so the gate password is entered once
// per browsing session instead of on every admin call. Sessions are
// process-local and die with the server, which is the intended lifetime for
// a single-admin deployment.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the cookie under which clients persist the session token.
const CookieName = "admin_session"

// Store issues and validates admin session tokens. It is safe for
// concurrent use. Expired tokens are evicted opportunistically whenever the
// store is touched, so memory stays bounded without a background goroutine.
type Store struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]time.Time // token -> expiry

	// now is the clock source; replaceable in tests.
	now func() time.Time
}

// NewStore creates a Store whose sessions live for ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:    ttl,
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Issue creates a new session and returns its token and expiry time.
func (s *Store) Issue() (token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()

	token = uuid.NewString()
	expiresAt = s.now().Add(s.ttl)
	s.tokens[token] = expiresAt
	return token, expiresAt
}

// Valid reports whether token identifies a live session. Expired tokens are
// removed on sight.
func (s *Store) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.tokens[token]
	if !ok {
		return false
	}
	if s.now().After(exp) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// Revoke ends the session for token, if it exists.
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// evictLocked drops expired sessions. Caller must hold mu.
func (s *Store) evictLocked() {
	now := s.now()
	for tok, exp := range s.tokens {
		if now.After(exp) {
			delete(s.tokens, tok)
		}
	}
}
