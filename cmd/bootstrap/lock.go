package bootstrap

import (
	"context"
	"log/slog"

	"villa-reservation/internal/infra/lock"
	"villa-reservation/internal/pkg/config"
	"villa-reservation/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var LockModule = fx.Module("lock",
	fx.Provide(
		NewBookingLock,
	),
)

// NewBookingLock returns a redsync-backed lock when REDIS_ADDR is set.
func NewBookingLock(lc fx.Lifecycle, cfg config.Config) commands.BookingLock {
	if cfg.Redis.Addr == "" {
		slog.Info("REDIS_ADDR not set, booking create lock disabled")
		return lock.NoopLock{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	l := lock.NewRedisLock(client, cfg.Redis.LockTTL)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				slog.Warn("redis unreachable, create lock will fall back to the database guard", "error", err.Error())
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return l.Close()
		},
	})
	return l
}
