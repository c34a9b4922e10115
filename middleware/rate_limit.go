package middleware

import (
	"net/http"
	"sync"
	"time"

	"techsupport_pro_go/services/i18n"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the maximum number of requests allowed within the window
	Requests int
	// Window is the time window for rate limiting
	Window time.Duration
	// KeyFunc is a function that returns a unique key for rate limiting (defaults to IP)
	KeyFunc func(c echo.Context) string
	// MessageKey is the i18n key of the message returned when the limit is exceeded
	MessageKey string
}

// rateLimitEntry is the token bucket of one key
type rateLimitEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per key with a token bucket that refills
// Requests tokens per Window.
type RateLimiter struct {
	config RateLimitConfig
	limit  rate.Limit
	store  map[string]*rateLimitEntry
	mu     sync.Mutex
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.MessageKey == "" {
		config.MessageKey = "contact.error.rate_limited"
	}

	rl := &RateLimiter{
		config: config,
		limit:  rate.Every(config.Window / time.Duration(config.Requests)),
		store:  make(map[string]*rateLimitEntry),
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// limiterFor returns the bucket of key, creating a full one on first use
func (rl *RateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.store[key]
	if !ok {
		entry = &rateLimitEntry{limiter: rate.NewLimiter(rl.limit, rl.config.Requests)}
		rl.store[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// Allow reports whether a request for key may proceed at now
func (rl *RateLimiter) Allow(key string, now time.Time) bool {
	return rl.limiterFor(key, now).AllowN(now, 1)
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(rl.config.KeyFunc(c), time.Now()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, i18n.T(c.Request().Context(), rl.config.MessageKey))
			}
			return next(c)
		}
	}
}

// sweep drops buckets that have been idle for a full window. An idle bucket
// has refilled completely, so dropping it changes nothing.
func (rl *RateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, entry := range rl.store {
		if now.Sub(entry.lastSeen) > rl.config.Window {
			delete(rl.store, key)
		}
	}
}

// cleanup removes idle entries every minute
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	for now := range ticker.C {
		rl.sweep(now)
	}
}

// PublicFormRateLimiter limits contact form submissions to 10 per minute per IP
var PublicFormRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 10,
	Window:   1 * time.Minute,
})
