package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before block
	AttemptWindow time.Duration // window in which failures are counted
	BlockDuration time.Duration // how long a block lasts
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// LoginTracker counts failed signins per email and blocks after too many.
// Counters live in Redis when a client is configured, otherwise in memory.
type LoginTracker struct {
	config LoginTrackerConfig
	client *goredis.Client
	logger *SecurityLogger

	mu      sync.Mutex
	local   map[string]*attemptEntry
	nowFunc func() time.Time
}

type attemptEntry struct {
	count        int
	windowEnd    time.Time
	blockedUntil time.Time
}

const (
	failLoginUserPrefix    = "fail:login:user:"
	blockedLoginUserPrefix = "blocked:login:user:"
)

// KEYS[1] = counter key, ARGV[1] = TTL seconds. Returns the new count.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

func NewLoginTracker(config LoginTrackerConfig, client *goredis.Client, logger *SecurityLogger) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config = DefaultLoginTrackerConfig()
	}
	return &LoginTracker{
		config:  config,
		client:  client,
		logger:  logger,
		local:   make(map[string]*attemptEntry),
		nowFunc: time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsBlocked reports whether signin for email is currently blocked.
// Redis errors fail open.
func (lt *LoginTracker) IsBlocked(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if lt.client != nil {
		exists, err := lt.client.Exists(ctx, blockedLoginUserPrefix+email).Result()
		if err != nil {
			return false, fmt.Errorf("failed to check user block: %w", err)
		}
		return exists > 0, nil
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()
	entry, ok := lt.local[email]
	return ok && lt.nowFunc().Before(entry.blockedUntil), nil
}

// RecordFailedAttempt counts a failure and reports whether it caused a block.
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email, ip, requestID string) (bool, error) {
	email = normalizeEmail(email)
	lt.logger.LogLoginFailed(ctx, email, ip, requestID, "invalid_credentials")

	var count int
	if lt.client != nil {
		var err error
		count, err = lt.incrementRedis(ctx, failLoginUserPrefix+email)
		if err != nil {
			return false, fmt.Errorf("failed to increment user counter: %w", err)
		}
	} else {
		count = lt.incrementLocal(email)
	}

	if count < lt.config.MaxAttempts {
		return false, nil
	}

	if err := lt.block(ctx, email); err != nil {
		return true, err
	}
	lt.logger.Log(ctx, SecurityEvent{
		Event:        EventBlockCreated,
		SubjectType:  "email",
		SubjectValue: email,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"duration_minutes": int(lt.config.BlockDuration.Minutes())},
	})
	return true, nil
}

// ClearAttempts resets the counter after a successful signin.
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if lt.client != nil {
		return lt.client.Del(ctx, failLoginUserPrefix+email).Err()
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()
	delete(lt.local, email)
	return nil
}

func (lt *LoginTracker) incrementRedis(ctx context.Context, key string) (int, error) {
	result, err := lt.client.Eval(ctx, incrWithTTLScript, []string{key}, int(lt.config.AttemptWindow.Seconds())).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

func (lt *LoginTracker) incrementLocal(email string) int {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	now := lt.nowFunc()
	entry, ok := lt.local[email]
	if !ok || now.After(entry.windowEnd) {
		entry = &attemptEntry{windowEnd: now.Add(lt.config.AttemptWindow), blockedUntil: entryBlock(entry)}
		lt.local[email] = entry
	}
	entry.count++
	return entry.count
}

func entryBlock(e *attemptEntry) time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.blockedUntil
}

func (lt *LoginTracker) block(ctx context.Context, email string) error {
	if lt.client != nil {
		if err := lt.client.Set(ctx, blockedLoginUserPrefix+email, "1", lt.config.BlockDuration).Err(); err != nil {
			return fmt.Errorf("failed to set user block: %w", err)
		}
		return lt.client.Del(ctx, failLoginUserPrefix+email).Err()
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()
	now := lt.nowFunc()
	lt.local[email] = &attemptEntry{
		windowEnd:    now.Add(lt.config.AttemptWindow),
		blockedUntil: now.Add(lt.config.BlockDuration),
	}
	return nil
}
