package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestKeyFuncs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")

	byUser, bySession := KeyByUserOrIP(), KeyBySessionOrIP()
	if got := byUser(c); got != "ip:203.0.113.9" {
		t.Fatalf("byUser ip = %q", got)
	}
	if got := bySession(c); got != "ip:203.0.113.9" {
		t.Fatalf("bySession ip = %q", got)
	}

	c.Set(ctxKeySessionID, "s-1")
	if got := bySession(c); got != "session:s-1" {
		t.Fatalf("bySession session = %q", got)
	}
	if got := byUser(c); got != "ip:203.0.113.9" {
		t.Fatalf("byUser ignores sessions, got %q", got)
	}

	c.Set(ctxKeyUserID, "u-9")
	if got := bySession(c); got != "user:u-9" {
		t.Fatalf("bySession user = %q", got)
	}
}

func TestRateLimiter_BucketReuseAndSweep(t *testing.T) {
	rl := NewRateLimiter(1, 0, KeyByUserOrIP())
	if rl.burst != 1 {
		t.Fatalf("burst = %d, want coerced 1", rl.burst)
	}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	rl.now = func() time.Time { return now }

	a := rl.limiterFor("a")
	if rl.limiterFor("a") != a {
		t.Fatal("bucket not reused")
	}

	// "a" goes idle; force a sweep on the next lookup.
	now = base.Add(rl.idleTTL)
	rl.lookups = sweepEvery - 1
	rl.limiterFor("b")
	if rl.Len() != 1 {
		t.Fatalf("idle bucket not swept, len=%d", rl.Len())
	}
	if rl.limiterFor("a") == a {
		t.Fatal("swept bucket came back")
	}
}

func TestRateLimiter_Handler429AndReplayBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(0.5, 1, KeyByUserOrIP())

	r := gin.New()
	r.Use(RequestID())
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Replay") == "1" {
			c.Set(ctxKeyRateBypass, true)
		}
		c.Next()
	})
	r.Use(rl.Handler())
	r.POST("/orders", func(c *gin.Context) { c.Status(http.StatusCreated) })

	send := func(replay bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.RemoteAddr = "198.51.100.1:999"
		if replay {
			req.Header.Set("X-Replay", "1")
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := send(false); w.Code != http.StatusCreated {
		t.Fatalf("first = %d", w.Code)
	}
	w := send(false)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second = %d, want 429", w.Code)
	}
	secs, err := strconv.Atoi(w.Header().Get("Retry-After"))
	if err != nil || secs < 1 || secs > 2 {
		t.Fatalf("Retry-After = %q", w.Header().Get("Retry-After"))
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["code"] != "rate_limited" || body["request_id"] == "" {
		t.Fatalf("body = %v", body)
	}

	if w := send(true); w.Code != http.StatusCreated {
		t.Fatalf("replay = %d, want bypass", w.Code)
	}
}
