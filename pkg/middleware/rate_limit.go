package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-marketplace-go/pkg/cache"
	"github.com/mo-amir99/course-marketplace-go/pkg/response"
)

const tooManyRequests = "Too many requests. Please try again later."

// RateLimiter is an in-process fixed window limiter keyed by client IP.
type RateLimiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	rate     int
	duration time.Duration
	now      func() time.Time
}

type window struct {
	remaining int
	resetAt   time.Time
}

// NewRateLimiter allows rate requests per duration for each client.
func NewRateLimiter(rate int, duration time.Duration) *RateLimiter {
	return &RateLimiter{
		windows:  make(map[string]*window),
		rate:     rate,
		duration: duration,
		now:      time.Now,
	}
}

// Middleware returns a Gin middleware that enforces rate limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			response.Error(c, http.StatusTooManyRequests, tooManyRequests, nil, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{remaining: rl.rate, resetAt: now.Add(rl.duration)}
		rl.windows[key] = w
	}

	if w.remaining <= 0 {
		return false
	}
	w.remaining--
	return true
}

// Name identifies the sweep in scheduler logs.
func (rl *RateLimiter) Name() string {
	return "rate_limit_sweep"
}

// Execute drops expired windows so the scheduler can run the limiter as a job.
func (rl *RateLimiter) Execute(context.Context) error {
	rl.Sweep()
	return nil
}

// Sweep drops windows that have expired.
func (rl *RateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, w := range rl.windows {
		if now.After(w.resetAt) {
			delete(rl.windows, key)
		}
	}
}

// StoreLimiter counts requests in a shared cache so limits hold across instances.
type StoreLimiter struct {
	store  cache.Client
	logger *slog.Logger
}

// NewStoreLimiter creates a limiter backed by store.
func NewStoreLimiter(store cache.Client, logger *slog.Logger) *StoreLimiter {
	return &StoreLimiter{store: store, logger: logger}
}

// Limit allows limit requests per window per client IP for routes tagged with name.
// Store failures let the request through.
func (l *StoreLimiter) Limit(name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", name, c.ClientIP())

		count, err := cache.Hit(c.Request.Context(), l.store, key, window)
		if err != nil {
			if l.logger != nil {
				l.logger.Warn("rate limit store unavailable", slog.String("key", key), slog.String("error", err.Error()))
			}
			c.Next()
			return
		}

		if count > int64(limit) {
			response.Error(c, http.StatusTooManyRequests, tooManyRequests, nil, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
