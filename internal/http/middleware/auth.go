// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RequireSession, the guard placed in front of the
// admin catalog routes. Visitors browse the feed anonymously; only the
// mutating endpoints sit behind this middleware.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-bookfeed-backend/internal/session"
)

// SessionChecker validates an opaque admin session token. The gate service
// satisfies this interface.
type SessionChecker interface {
	Authenticated(token string) bool
}

// RequireSession returns a Gin middleware that rejects requests lacking a
// valid admin session with 401 and the standard error envelope.
//
// The token is read from the admin session cookie when present, otherwise
// from an Authorization: Bearer header. The cookie form serves browser
// admin UIs; the bearer form serves scripts and curl.
func RequireSession(sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" || !sessions.Authenticated(token) {
			rid, _ := c.Get(requestIDKey)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": asString(rid),
				"code":       "unauthorized",
				"message":    "admin session required",
			})
			return
		}
		c.Next()
	}
}

// sessionToken extracts the session token from the request, preferring the
// cookie over the Authorization header.
func sessionToken(c *gin.Context) string {
	if v, err := c.Cookie(session.CookieName); err == nil && v != "" {
		return v
	}
	auth := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}
