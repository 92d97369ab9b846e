package bootstrap

import (
	"log/slog"

	"villa-reservation/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	fx.Invoke(logBookingPolicy),
)

// logBookingPolicy records the pricing and retry settings the process starts with, so a
// refund or quote can be traced back to the policy in force.
func logBookingPolicy(cfg config.Config) {
	slog.Info("booking policy loaded",
		"nightly_rate", cfg.Booking.NightlyRate,
		"currency", cfg.Booking.Currency,
		"max_guests", cfg.Booking.MaxGuests,
		"occupancy_window_days", cfg.Booking.OccupancyWindowDays,
		"payment_max_attempts", cfg.Payment.MaxAttempts,
		"webhook_tolerance", cfg.Payment.WebhookTolerance.String(),
		"distributed_lock", cfg.Redis.Addr != "",
		"amqp", cfg.Notify.AMQPURL != "")
}
