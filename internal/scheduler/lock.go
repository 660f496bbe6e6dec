package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lease is a best-effort single-flight lock over Redis SET NX. One replica
// wins each tick window; the others skip. Losing the lease (Redis down, TTL
// expiry mid-run) at worst runs a task twice, which the dedup store absorbs.
type Lease struct {
	client *redis.Client
	prefix string
}

// NewLease wraps a Redis client; prefix namespaces the lock keys.
func NewLease(client *redis.Client, prefix string) *Lease {
	if prefix == "" {
		prefix = "bookingengine:lease"
	}
	return &Lease{client: client, prefix: prefix}
}

// Acquire attempts to take the lease for one tick window. The TTL matches the
// task interval so the lock naturally frees for the next tick.
func (l *Lease) Acquire(ctx context.Context, task string, ttl time.Duration) (bool, error) {
	if l == nil || l.client == nil {
		return true, nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	key := fmt.Sprintf("%s:%s", l.prefix, task)
	ok, err := l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("scheduler: acquire lease %s: %w", task, err)
	}
	return ok, nil
}
