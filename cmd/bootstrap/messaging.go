package bootstrap

import (
	"context"
	"log/slog"

	"villa-reservation/internal/infra/messaging"
	"villa-reservation/internal/pkg/config"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewNotifier,
	),
)

type closableNotifier interface {
	messaging.Notifier
	Close() error
}

// NewNotifier publishes to RabbitMQ when AMQP_URL is set and logs notifications otherwise.
func NewNotifier(lc fx.Lifecycle, cfg config.Config) (messaging.Notifier, error) {
	var n closableNotifier
	if cfg.Notify.AMQPURL == "" {
		slog.Info("AMQP_URL not set, notifications will be logged only")
		n = messaging.NewLogNotifier()
	} else {
		p, err := messaging.NewRabbitPublisher(cfg.Notify.AMQPURL, cfg.Notify.Exchange)
		if err != nil {
			return nil, err
		}
		n = p
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return n.Close()
		},
	})
	return n, nil
}
