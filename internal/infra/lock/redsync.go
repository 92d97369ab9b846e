package lock

import (
	"context"
	"log/slog"
	"time"

	"villa-reservation/internal/pkg/errs"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// RedisLock hands out redsync mutexes. Expiry bounds how long a crashed holder can block
// other instances.
type RedisLock struct {
	client *redis.Client
	rs     *redsync.Redsync
	ttl    time.Duration
}

func NewRedisLock(client *redis.Client, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLock{
		client: client,
		rs:     redsync.New(goredis.NewPool(client)),
		ttl:    ttl,
	}
}

func (l *RedisLock) Acquire(ctx context.Context, key string) (func(context.Context), error) {
	m := l.rs.NewMutex(key,
		redsync.WithExpiry(l.ttl),
		redsync.WithTries(20),
		redsync.WithRetryDelay(50*time.Millisecond),
	)
	if err := m.LockContext(ctx); err != nil {
		return nil, errs.Wrapf(err, "acquire %s", key)
	}
	return func(ctx context.Context) {
		if ok, err := m.UnlockContext(ctx); err != nil || !ok {
			// The lock expires on its own; the next holder is only delayed.
			slog.Warn("failed to release lock", "key", key, "error", err)
		}
	}, nil
}

func (l *RedisLock) Close() error {
	return l.client.Close()
}
