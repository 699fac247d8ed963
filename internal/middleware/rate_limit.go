package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ndr-srv/pkg/errors"
	"ndr-srv/pkg/response"
	"ndr-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

const rateLimitedCode = 429001

// RateLimitConfig bounds how many requests one operator may make inside Window.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// DefaultRateLimitConfig returns default rate limiting configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:  30,
		Window: time.Minute,
	}
}

// RateLimitError represents a rate limit exceeded error
type RateLimitError struct {
	Key     string
	Current int
	Max     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s (current: %d, max: %d)", e.Key, e.Current, e.Max)
}

// RateLimiter is a sliding-window counter keyed by operator.
type RateLimiter struct {
	mu         sync.Mutex
	config     RateLimitConfig
	timestamps map[string][]time.Time
	clock      func() time.Time
}

func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	def := DefaultRateLimitConfig()
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	return &RateLimiter{
		config:     cfg,
		timestamps: make(map[string][]time.Time),
		clock:      time.Now,
	}
}

// Allow records a request for key unless the window is already full.
func (rl *RateLimiter) Allow(key string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock()
	valid := rl.pruneLocked(key, now)
	if len(valid) >= rl.config.Limit {
		return &RateLimitError{Key: key, Current: len(valid), Max: rl.config.Limit}
	}
	rl.timestamps[key] = append(valid, now)
	return nil
}

func (rl *RateLimiter) pruneLocked(key string, now time.Time) []time.Time {
	windowStart := now.Add(-rl.config.Window)
	timestamps := rl.timestamps[key]
	valid := make([]time.Time, 0, len(timestamps))
	for _, ts := range timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}
	if len(valid) == 0 {
		delete(rl.timestamps, key)
	} else {
		rl.timestamps[key] = valid
	}
	return valid
}

// Run drops idle keys every window until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(rl.config.Window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock()
	for key := range rl.timestamps {
		rl.pruneLocked(key, now)
	}
}

// WithRateLimiter returns a copy of m whose RateLimit uses rl.
func (m Middleware) WithRateLimiter(rl *RateLimiter) Middleware {
	m.limiter = rl
	return m
}

// RateLimit throttles the authenticated operator. It is a no-op without a limiter
// and must run after Auth.
func (m Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.limiter == nil {
			c.Next()
			return
		}

		sc := scope.GetScopeFromContext(c.Request.Context())
		if err := m.limiter.Allow(sc.UserID); err != nil {
			m.l.Warnf(c.Request.Context(), "%v | Path: %s", err, c.Request.URL.Path)
			response.Error(c, errors.NewHTTPError(rateLimitedCode, "Too many requests", http.StatusTooManyRequests), nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
