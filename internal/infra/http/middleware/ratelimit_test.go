package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "requisição %d deveria passar", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "outro IP tem o próprio limite")
}

func TestRateLimiter_Handler(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodPost, "/leads", nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimiter_SweepsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, time.Millisecond)
	rl.Allow("10.0.0.1")
	time.Sleep(5 * time.Millisecond)
	rl.Allow("10.0.0.2")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	_, stale := rl.visitors["10.0.0.1"]
	assert.False(t, stale)
}

func TestClientIP_IgnoresForwardedHeaders(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.168.0.9:5555"
	r.Header.Set("X-Real-IP", "177.0.0.1")
	r.Header.Set("X-Forwarded-For", "200.1.1.1")

	assert.Equal(t, "192.168.0.9", ClientIP(r))
}

func TestRateLimiter_SpoofedForwardedForDoesNotResetLimit(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := RealIP(nil)(rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	codes := make([]int, 0, 2)
	for _, fake := range []string{"1.1.1.1", "2.2.2.2"} {
		r := httptest.NewRequest(http.MethodPost, "/leads", nil)
		r.RemoteAddr = "203.0.113.7:40000"
		r.Header.Set("X-Forwarded-For", fake)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests}, codes)
}
