package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// LoginAttemptKeyPrefix is the Redis key prefix for login attempt counters.
const LoginAttemptKeyPrefix = "login_attempts:"

// Throttle decides whether another attempt from key is allowed right now.
// When it returns an error the decision is still usable; callers fail open.
type Throttle interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisThrottle is a fixed-window counter shared by every server process.
type RedisThrottle struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
}

func NewRedisThrottle(client redis.Cmdable, limit int, window time.Duration) *RedisThrottle {
	return &RedisThrottle{client: client, limit: int64(limit), window: window}
}

func (t *RedisThrottle) Allow(ctx context.Context, key string) (bool, error) {
	counterKey := LoginAttemptKeyPrefix + key

	var (
		count *redis.IntCmd
		ttl   *redis.DurationCmd
	)
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, counterKey)
		ttl = pipe.TTL(ctx, counterKey)
		return nil
	})
	if err != nil {
		return true, err
	}
	allowed := count.Val() <= t.limit

	// The window starts at the first attempt and is not extended. A counter
	// left without a TTL by a failed Expire gets one on the next attempt.
	if ttl.Val() < 0 {
		if err := t.client.Expire(ctx, counterKey, t.window).Err(); err != nil {
			return allowed, err
		}
	}
	return allowed, nil
}

const (
	memoryThrottleCleanupInterval = 5 * time.Minute
	memoryThrottleEntryTTL        = 30 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// MemoryThrottle is a per-key token bucket for single-process deployments:
// limit attempts of burst, refilled evenly over window.
type MemoryThrottle struct {
	every rate.Limit
	burst int
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

func NewMemoryThrottle(limit int, window time.Duration) *MemoryThrottle {
	return &MemoryThrottle{
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		now:     time.Now,
		entries: make(map[string]*limiterEntry),
	}
}

func (t *MemoryThrottle) Allow(_ context.Context, key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	e, ok := t.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(t.every, t.burst)}
		t.entries[key] = e
	}
	e.lastUse = now
	return e.limiter.AllowN(now, 1), nil
}

// Run drops idle entries until ctx is done.
func (t *MemoryThrottle) Run(ctx context.Context) {
	ticker := time.NewTicker(memoryThrottleCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.sweep()
		}
	}
}

func (t *MemoryThrottle) sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	for key, e := range t.entries {
		if now.Sub(e.lastUse) > memoryThrottleEntryTTL {
			delete(t.entries, key)
		}
	}
}
