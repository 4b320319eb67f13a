package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/roadsigns-backend/internal/config"
)

func limitedHandler(cfg config.RateLimitConfig) (http.Handler, *RateLimiter) {
	rl := NewRateLimiter(cfg)
	h := Chain(ClientIP, rl.Middleware())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	return h, rl
}

func hit(h http.Handler, addr string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.RemoteAddr = addr
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BurstThenBlocks(t *testing.T) {
	t.Parallel()

	h, _ := limitedHandler(config.RateLimitConfig{PerMinute: 6, Burst: 5})

	for i := range 5 {
		assert.Equal(t, http.StatusOK, hit(h, "1.2.3.4:1234").Code, "request %d", i)
	}

	rec := hit(h, "1.2.3.4:9999")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "10", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
}

func TestRateLimiter_ClientsIndependent(t *testing.T) {
	t.Parallel()

	h, rl := limitedHandler(config.RateLimitConfig{PerMinute: 1, Burst: 1})

	assert.Equal(t, http.StatusOK, hit(h, "1.1.1.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "1.1.1.1:2").Code)
	assert.Equal(t, http.StatusOK, hit(h, "2.2.2.2:1").Code)
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiter_RejectedRequestsDoNotConsume(t *testing.T) {
	t.Parallel()

	h, _ := limitedHandler(config.RateLimitConfig{PerMinute: 60, Burst: 1})

	assert.Equal(t, http.StatusOK, hit(h, "9.9.9.9:1").Code)
	for range 3 {
		rec := hit(h, "9.9.9.9:1")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	}
}
