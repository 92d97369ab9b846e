package bootstrap

import (
	"context"

	"villa-reservation/internal/infra/messaging"
	"villa-reservation/internal/infra/outbox"
	"villa-reservation/internal/infra/repository"
	"villa-reservation/internal/infra/uow"
	"villa-reservation/internal/pkg/clock"
	"villa-reservation/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var OutboxModule = fx.Module("outbox",
	fx.Provide(
		NewDispatcher,
	),
	fx.Invoke(startDispatcher),
)

func NewDispatcher(pool *pgxpool.Pool, u *uow.PostgresUoW, notifier messaging.Notifier, clk clock.Clock, cfg config.Config) *outbox.Dispatcher {
	return outbox.NewDispatcher(u, repository.NewNotificationRepository(pool), notifier, clk, cfg.Notify)
}

func startDispatcher(lc fx.Lifecycle, d *outbox.Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			d.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return d.Stop(ctx)
		},
	})
}
