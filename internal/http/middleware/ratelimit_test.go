package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestRateLimiter_Handler_AllowThenDeny(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// rps=1, burst=1: first immediate request passes, second is rejected.
	rl := NewRateLimiter(1.0, 1)

	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w1 := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req1.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")
	r.ServeHTTP(w1, req1)
	if w1.Code != http.StatusOK {
		t.Fatalf("first request should be allowed, got %d", w1.Code)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req2.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")
	r.ServeHTTP(w2, req2)
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be rate-limited, got %d", w2.Code)
	}
	if got := w2.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("expected Retry-After=1, got %q", got)
	}
	var body map[string]any
	if err := json.Unmarshal(w2.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["code"] != "rate_limited" || body["message"] != "rate limit exceeded" {
		t.Fatalf("unexpected JSON body: %v", body)
	}
}

func TestRateLimiter_Handler_DisabledWhenZeroRPS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(0, 0)

	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d should pass with limiting disabled, got %d", i, w.Code)
		}
	}
}

func TestRateLimiter_SeparateBucketsPerKey(t *testing.T) {
	rl := NewRateLimiter(1.0, 1)

	if !rl.allow("ip:203.0.113.1") {
		t.Fatalf("first request for key A should pass")
	}
	if rl.allow("ip:203.0.113.1") {
		t.Fatalf("second immediate request for key A should be denied")
	}
	// A different client keeps its own bucket.
	if !rl.allow("ip:203.0.113.2") {
		t.Fatalf("first request for key B should pass")
	}
}

func TestRateLimiter_GCEvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1.0, 1)
	rl.idleTTL = time.Nanosecond

	rl.mu.Lock()
	rl.visitors["old"] = &visitor{
		limiter:  rate.NewLimiter(1, 1),
		lastSeen: time.Now().Add(-time.Hour),
	}
	// Make the next allow call eligible to run GC.
	rl.lastGC = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	_ = rl.allow("new")

	rl.mu.Lock()
	_, oldExists := rl.visitors["old"]
	_, newExists := rl.visitors["new"]
	rl.mu.Unlock()

	if oldExists {
		t.Fatalf("expected idle visitor to be evicted")
	}
	if !newExists {
		t.Fatalf("expected new visitor to be created")
	}
}
