package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter limits requests per client IP within a fixed window. Counters
// live in Redis so every instance shares them; when Redis is absent or
// failing an in-process token bucket per IP takes over.
type RateLimiter struct {
	rdb     *redis.Client
	prefix  string
	maxReqs int
	window  time.Duration
	local   *localLimiter
}

// NewRateLimiter creates a rate limiter. rdb may be nil.
func NewRateLimiter(rdb *redis.Client, prefix string, maxReqs, windowSec int) *RateLimiter {
	if maxReqs < 1 {
		maxReqs = 1
	}
	if windowSec < 1 {
		windowSec = 1
	}
	window := time.Duration(windowSec) * time.Second
	return &RateLimiter{
		rdb:     rdb,
		prefix:  prefix,
		maxReqs: maxReqs,
		window:  window,
		local:   newLocalLimiter(maxReqs, window),
	}
}

// Handler returns a Fiber middleware handler for rate limiting.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		ip := c.IP()

		if rl.rdb != nil {
			count, ttl, err := rl.incr(c.Context(), ip)
			if err == nil {
				return rl.respond(c, rl.maxReqs-int(count), ttl, int(count) > rl.maxReqs)
			}
			slog.Warn("redis rate limiter unavailable, using local limiter", "error", err)
		}

		allowed, remaining := rl.local.allow(ip)
		return rl.respond(c, remaining, rl.window, !allowed)
	}
}

func (rl *RateLimiter) incr(ctx context.Context, ip string) (int64, time.Duration, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", rl.prefix, ip)

	count, err := rl.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	// Set expiry on first request in the window
	if count == 1 {
		if err := rl.rdb.Expire(ctx, key, rl.window).Err(); err != nil {
			return 0, 0, err
		}
	}

	ttl, err := rl.rdb.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = rl.window
	}
	return count, ttl, nil
}

func (rl *RateLimiter) respond(c fiber.Ctx, remaining int, reset time.Duration, limited bool) error {
	resetSec := int(reset.Seconds())
	c.Set("X-RateLimit-Limit", strconv.Itoa(rl.maxReqs))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, remaining)))
	c.Set("X-RateLimit-Reset", strconv.Itoa(resetSec))

	if limited {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(resetSec))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":       "rate limit exceeded",
			"retry_after": resetSec,
		})
	}
	return c.Next()
}

// maxLocalEntries bounds the per-IP limiter map before idle entries are swept.
const maxLocalEntries = 10000

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type localLimiter struct {
	mu       sync.Mutex
	limiters map[string]*localEntry
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

func newLocalLimiter(maxReqs int, window time.Duration) *localLimiter {
	return &localLimiter{
		limiters: make(map[string]*localEntry),
		limit:    rate.Every(window / time.Duration(maxReqs)),
		burst:    maxReqs,
		idle:     window,
	}
}

func (l *localLimiter) allow(ip string) (bool, int) {
	now := time.Now()

	l.mu.Lock()
	entry, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= maxLocalEntries {
			l.sweep(now)
		}
		entry = &localEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	limiter := entry.limiter
	l.mu.Unlock()

	allowed := limiter.AllowN(now, 1)
	return allowed, int(limiter.TokensAt(now))
}

func (l *localLimiter) sweep(now time.Time) {
	for ip, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idle {
			delete(l.limiters, ip)
		}
	}
}
