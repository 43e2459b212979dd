package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Throttle counts failed logins per key and locks the key out once the
// failure budget for the window is spent.
type Throttle interface {
	Fail(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
	Locked(ctx context.Context, key string) (bool, error)
}

const keyPrefix = "login_fail:"

type Redis struct {
	rdb         *redis.Client
	maxFailures int64
	window      time.Duration
}

func NewRedis(rdb *redis.Client, maxFailures int, window time.Duration) *Redis {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &Redis{rdb: rdb, maxFailures: int64(maxFailures), window: window}
}

func (t *Redis) Fail(ctx context.Context, key string) (int64, error) {
	count, err := t.rdb.Incr(ctx, keyPrefix+key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		// window starts at the first failure
		if err := t.rdb.Expire(ctx, keyPrefix+key, t.window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (t *Redis) Reset(ctx context.Context, key string) error {
	return t.rdb.Del(ctx, keyPrefix+key).Err()
}

func (t *Redis) Locked(ctx context.Context, key string) (bool, error) {
	count, err := t.rdb.Get(ctx, keyPrefix+key).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= t.maxFailures, nil
}

type memoryEntry struct {
	count   int64
	resetAt time.Time
}

type Memory struct {
	mu          sync.Mutex
	entries     map[string]*memoryEntry
	maxFailures int64
	window      time.Duration
}

func NewMemory(maxFailures int, window time.Duration) *Memory {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &Memory{entries: make(map[string]*memoryEntry), maxFailures: int64(maxFailures), window: window}
}

func (t *Memory) Fail(ctx context.Context, key string) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	e := t.entries[key]
	if e == nil || now.After(e.resetAt) {
		e = &memoryEntry{resetAt: now.Add(t.window)}
		t.entries[key] = e
	}
	e.count++
	return e.count, nil
}

func (t *Memory) Reset(ctx context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
	return nil
}

func (t *Memory) Locked(ctx context.Context, key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entries[key]
	if e == nil || time.Now().After(e.resetAt) {
		return false, nil
	}
	return e.count >= t.maxFailures, nil
}
