package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/pkg/security"
)

// RateLimitConfig describes one limit: at most Limit requests per Window for
// each key KeyFunc derives (client IP when nil).
type RateLimitConfig struct {
	Limit     int
	Window    time.Duration
	KeyFunc   func(*gin.Context) string
	KeyPrefix string
	// FailClosed answers 503 instead of falling back to memory on Redis errors
	FailClosed bool
}

type rateLimitEntry struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// RateLimiter counts requests per key in Redis, or in process memory when
// no Redis client is configured or Redis fails on a fail-open limit.
type RateLimiter struct {
	client    *goredis.Client
	secLogger *security.SecurityLogger

	store       sync.Map
	cleanupOnce sync.Once
	now         func() time.Time
}

// NewRateLimiter creates a limiter. client may be nil.
func NewRateLimiter(client *goredis.Client, secLogger *security.SecurityLogger) *RateLimiter {
	return &RateLimiter{
		client:    client,
		secLogger: secLogger,
		now:       time.Now,
	}
}

func clientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// GlobalRateLimitConfig applies to every route.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:ip:",
		FailClosed: false,
		KeyFunc:    clientIPKey,
	}
}

// LoginRateLimitConfig is the stricter per-IP limit on signin.
func LoginRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:login:",
		FailClosed: true,
		KeyFunc:    clientIPKey,
	}
}

// startCleanup evicts expired in-memory windows every few minutes.
func (rl *RateLimiter) startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			now := rl.now()
			rl.store.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimitEntry)
				entry.mu.Lock()
				if now.After(entry.resetAt) {
					rl.store.Delete(key)
				}
				entry.mu.Unlock()
				return true
			})
		}
	}()
}

// Middleware enforces config on every request it sees.
func (rl *RateLimiter) Middleware(config RateLimitConfig) gin.HandlerFunc {
	rl.cleanupOnce.Do(rl.startCleanup)
	if config.KeyFunc == nil {
		config.KeyFunc = clientIPKey
	}

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)
		now := rl.now()

		var (
			count   int
			resetAt time.Time
			err     error
		)
		if rl.client != nil {
			count, resetAt, err = rl.checkRedis(c.Request.Context(), fullKey, config)
			if err != nil {
				if config.FailClosed {
					rl.logError(c, "redis_error", err)
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				count, resetAt = rl.checkInMemory(fullKey, config, now)
			}
		} else {
			count, resetAt = rl.checkInMemory(fullKey, config, now)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(now).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			rl.secLogger.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), requestIDFrom(c), c.FullPath())

			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		remaining := config.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		c.Next()
	}
}

// checkRedis checks rate limit using Redis with atomic Lua script
func (rl *RateLimiter) checkRedis(ctx context.Context, key string, config RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(config.Window.Seconds())

	result, err := rl.client.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), rl.now().Add(time.Duration(ttl) * time.Second), nil
}

// checkInMemory checks rate limit using the in-memory store (fallback)
func (rl *RateLimiter) checkInMemory(key string, config RateLimitConfig, now time.Time) (int, time.Time) {
	entryI, _ := rl.store.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(config.Window)})
	entry := entryI.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(config.Window)
	}
	entry.count++

	return entry.count, entry.resetAt
}

func (rl *RateLimiter) logError(c *gin.Context, errorType string, err error) {
	rl.secLogger.Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventRateLimitTriggered,
		SubjectType: "system",
		IP:          c.ClientIP(),
		RequestID:   requestIDFrom(c),
		Details: map[string]interface{}{
			"error_type": errorType,
			"error":      err.Error(),
		},
	})
}
