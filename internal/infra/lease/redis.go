package lease

import (
	"context"
	"sync"
	"time"

	"travel-booking/internal/pkg/clock"
	"travel-booking/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// RedisLease grants a key to the first replica that sets it; the key lapses after ttl.
type RedisLease struct {
	client *redis.Client
	owner  string
}

func NewRedisLease(client *redis.Client, owner string) *RedisLease {
	return &RedisLease{client: client, owner: owner}
}

func (l *RedisLease) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, l.owner, ttl).Result()
	if err != nil {
		return false, errs.Wrapf(err, "failed to acquire lease %s", key)
	}
	return ok, nil
}

// LocalLease is the single-process stand-in for RedisLease.
type LocalLease struct {
	mu      sync.Mutex
	clock   clock.Clock
	expires map[string]time.Time
}

func NewLocalLease(clk clock.Clock) *LocalLease {
	return &LocalLease{clock: clk, expires: make(map[string]time.Time)}
}

func (l *LocalLease) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if until, held := l.expires[key]; held && now.Before(until) {
		return false, nil
	}
	l.expires[key] = now.Add(ttl)
	return true, nil
}
