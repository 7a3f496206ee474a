package security

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// UploadLimiter caps uploads per user per day with a sliding window.
// It uses Redis when configured and an in-process window otherwise.
type UploadLimiter struct {
	maxPerDay int
	window    time.Duration
	client    *goredis.Client

	mu      sync.Mutex
	local   map[string][]time.Time
	nowFunc func() time.Time
}

// KEYS[1] = key, ARGV[1] = limit, ARGV[2] = window seconds, ARGV[3] = now.
// Returns 1 if allowed, 0 if limited.
const uploadRateLimitScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('EXPIRE', key, window)
return 1
`

func NewUploadLimiter(perDay int, client *goredis.Client) *UploadLimiter {
	if perDay <= 0 {
		perDay = 50
	}
	return &UploadLimiter{
		maxPerDay: perDay,
		window:    24 * time.Hour,
		client:    client,
		local:     make(map[string][]time.Time),
		nowFunc:   time.Now,
	}
}

// AllowUpload reports whether userID may upload now. Redis errors fail open
// and are returned alongside allowed=true so callers can log them.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, userID string) (bool, error) {
	if ul.client != nil {
		key := fmt.Sprintf("ratelimit:upload:user:%s", userID)
		now := ul.nowFunc().Unix()
		result, err := ul.client.Eval(ctx, uploadRateLimitScript, []string{key}, ul.maxPerDay, int(ul.window.Seconds()), now).Result()
		if err != nil {
			return true, fmt.Errorf("upload limit check failed: %w", err)
		}
		allowed, ok := result.(int64)
		if !ok {
			return true, fmt.Errorf("unexpected result type from rate limit script")
		}
		return allowed == 1, nil
	}

	ul.mu.Lock()
	defer ul.mu.Unlock()

	now := ul.nowFunc()
	cutoff := now.Add(-ul.window)
	kept := ul.local[userID][:0]
	for _, ts := range ul.local[userID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= ul.maxPerDay {
		ul.local[userID] = kept
		return false, nil
	}
	ul.local[userID] = append(kept, now)
	return true, nil
}
