package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/heartmarshall/roadsigns-backend/internal/config"
	"github.com/heartmarshall/roadsigns-backend/pkg/ctxutil"
)

const maxTrackedClients = 100_000

// RateLimiter applies a token bucket per client address. Buckets of idle
// clients expire.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	clients *expirable.LRU[string, *rate.Limiter]
}

// NewRateLimiter creates a limiter from cfg.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	perMinute := max(cfg.PerMinute, 1)
	idle := cfg.IdleEviction
	if idle <= 0 {
		idle = 5 * time.Minute
	}
	return &RateLimiter{
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   max(cfg.Burst, 1),
		clients: expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, idle),
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After.
func (rl *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ctxutil.ClientIPFromCtx(r.Context())
			if key == "" {
				key = remoteHost(r.RemoteAddr)
			}

			res := rl.limiter(key).Reserve()
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Len reports the number of tracked clients.
func (rl *RateLimiter) Len() int { return rl.clients.Len() }

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.clients.Get(key)
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
	}
	// Re-adding refreshes the idle expiry.
	rl.clients.Add(key, l)
	return l
}
