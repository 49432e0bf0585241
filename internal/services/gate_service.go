// Package services – GateService
//
// This file implements the GateService, the password check that unlocks the
// admin interface. The supplied password is compared byte-for-byte (in
// constant time) against a server-held secret loaded at process start; on
// success a session token is issued so the prompt is skipped for the rest of
// the browsing session.
package services

import (
	"crypto/subtle"
	"time"

	"github.com/tbourn/go-bookfeed-backend/internal/session"
)

// GateService verifies the admin password and manages admin sessions.
type GateService struct {
	// Secret is the configured admin password. Empty means the gate is
	// unconfigured and every login fails with ErrGateNotConfigured.
	Secret string
	// Sessions is the store that issued tokens live in.
	Sessions *session.Store
}

// NewGateService constructs a GateService around a secret and session store.
func NewGateService(secret string, sessions *session.Store) *GateService {
	return &GateService{Secret: secret, Sessions: sessions}
}

// Login validates password and, on success, issues a session token.
//
// Errors:
//   - ErrMissingPassword when password is empty.
//   - ErrGateNotConfigured when no secret is configured (deployment fault).
//   - ErrWrongPassword on mismatch.
//
// The comparison uses crypto/subtle so response timing does not leak how
// much of the password matched.
func (s *GateService) Login(password string) (token string, expiresAt time.Time, err error) {
	if password == "" {
		return "", time.Time{}, ErrMissingPassword
	}
	if s.Secret == "" {
		return "", time.Time{}, ErrGateNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.Secret)) != 1 {
		return "", time.Time{}, ErrWrongPassword
	}
	token, expiresAt = s.Sessions.Issue()
	return token, expiresAt, nil
}

// Authenticated reports whether token identifies a live admin session.
func (s *GateService) Authenticated(token string) bool {
	return s.Sessions.Valid(token)
}

// Logout revokes the session for token, if any.
func (s *GateService) Logout(token string) {
	s.Sessions.Revoke(token)
}
