package shared

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TransferLockKey builds redis keys for transfer critical sections.
func TransferLockKey(queueID string) string {
	return fmt.Sprintf("transfer:queue:%s:lock", queueID)
}

// ErrLockHeld indicates another worker is already processing the resource.
var ErrLockHeld = errors.New("lock already held")

// LockGuard serialises executions across processes with redis SETNX.
// Balance safety does not depend on it; row locks in Postgres own that.
// The guard only avoids burning a second request on a queue item that is
// mid-flight elsewhere.
type LockGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLockGuard constructs a LockGuard. TTL bounds how long a crashed holder
// can block later attempts.
func NewLockGuard(client *redis.Client, ttl time.Duration) *LockGuard {
	return &LockGuard{client: client, ttl: ttl}
}

// Acquire takes the named lock or returns ErrLockHeld.
func (g *LockGuard) Acquire(ctx context.Context, key string) error {
	if g == nil || g.client == nil {
		return nil
	}
	ok, err := g.client.SetNX(ctx, key, "1", g.ttl).Result()
	if err != nil {
		return fmt.Errorf("shared: acquire lock %s: %w", key, err)
	}
	if !ok {
		return ErrLockHeld
	}
	return nil
}

// Release drops the named lock.
func (g *LockGuard) Release(ctx context.Context, key string) {
	if g == nil || g.client == nil {
		return
	}
	_ = g.client.Del(ctx, key).Err()
}
