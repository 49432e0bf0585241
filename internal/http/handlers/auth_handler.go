// Admin gate HTTP handlers.
//
// This file exposes the authentication endpoints:
//   - POST /auth/admin   (exchange the shared password for a session)
//   - POST /auth/logout  (revoke the current session)
//
// The gate issues an opaque session token that subsequent admin requests
// present via the session cookie or an Authorization: Bearer header.
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-bookfeed-backend/internal/services"
	"github.com/tbourn/go-bookfeed-backend/internal/session"
)

// AdminLoginRequest is the JSON payload for the admin gate.
type AdminLoginRequest struct {
	Password string `json:"password" example:"hunter2"`
}

// AdminLoginResponse is returned on a successful gate check.
type AdminLoginResponse struct {
	Success   bool      `json:"success" example:"true"`
	Token     string    `json:"token" example:"4f7c2f0a1d9e4b7f9c1a2b3c4d5e6f70"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminLogin godoc
// @ID          adminLogin
// @Summary     Authenticate as admin
// @Description Checks the shared admin password and issues a session token. The token is also set as a cookie.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.AdminLoginRequest  true  "Gate payload"
//
// @Success     200  {object} handlers.AdminLoginResponse
// @Failure     400  {object} handlers.ErrorResponse "Password missing"
// @Failure     401  {object} handlers.ErrorResponse "Password mismatch"
// @Failure     500  {object} handlers.ErrorResponse "Gate not configured"
// @Router      /auth/admin [post]
func (h *Handlers) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	token, expiresAt, err := h.gateSvc.Login(req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingPassword):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "password is required")
		case errors.Is(err, services.ErrWrongPassword):
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "wrong password")
		case errors.Is(err, services.ErrGateNotConfigured):
			fail(c, http.StatusInternalServerError, ErrCodeGateUnconfigured, "admin gate is not configured")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	setSessionCookie(c, token, expiresAt)
	ok(c, http.StatusOK, AdminLoginResponse{Success: true, Token: token, ExpiresAt: expiresAt})
}

// AdminLogout godoc
// @ID          adminLogout
// @Summary     Revoke the admin session
// @Description Revokes the presented session token and clears the session cookie.
// @Tags        Auth
// @Produce     json
// @Security    AdminSession
//
// @Success     204  {string} string "No Content"
// @Router      /auth/logout [post]
func (h *Handlers) AdminLogout(c *gin.Context) {
	if token := requestSessionToken(c); token != "" {
		h.gateSvc.Logout(token)
	}
	clearSessionCookie(c)
	noContent(c)
}

// setSessionCookie attaches the session token as an HttpOnly cookie scoped to
// the whole site. Secure is set when the request arrived over HTTPS so local
// development over plain HTTP keeps working.
func setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	secure := c.Request.TLS != nil ||
		strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, maxAge, "/", "", secure, true)
}

// clearSessionCookie expires the session cookie immediately.
func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
}

// requestSessionToken mirrors the middleware's token extraction: cookie
// first, then bearer header.
func requestSessionToken(c *gin.Context) string {
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
