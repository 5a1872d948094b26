package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterRefillsPerInterval(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.allow("10.0.0.1") || !rl.allow("10.0.0.1") {
		t.Fatal("first two requests denied")
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("third request allowed")
	}
	if !rl.allow("10.0.0.2") {
		t.Fatal("other client denied")
	}

	now = now.Add(59 * time.Second)
	if rl.allow("10.0.0.1") {
		t.Fatal("refilled before interval")
	}
	now = now.Add(2 * time.Second)
	if !rl.allow("10.0.0.1") {
		t.Fatal("not refilled after interval")
	}
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	rl.allow("10.0.0.1")
	now = now.Add(visitorTTL + 2*time.Minute)
	rl.allow("10.0.0.2")

	if _, ok := rl.visitors["10.0.0.1"]; ok {
		t.Fatal("idle visitor kept")
	}
}

func TestRateLimiterMiddlewareRejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/", NewRateLimiter(1, time.Minute).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests && w.Header().Get("Retry-After") != "60" {
			t.Errorf("retry-after = %q", w.Header().Get("Retry-After"))
		}
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}
