package components

import (
	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/pkg/clock"
	"villa-reservation/internal/pkg/config"
	"villa-reservation/internal/usecase/commands"
	"villa-reservation/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		NewPricingPolicy,
		fx.As(new(booking.PricingPolicy)),
	),
	fx.Annotate(
		booking.NewTieredRefundPolicy,
		fx.As(new(booking.RefundPolicy)),
	),
	func(cfg config.Config, pricing booking.PricingPolicy) booking.Policies {
		return booking.Policies{
			Pricing:   pricing,
			Codes:     booking.NewRandomCodeGenerator(),
			MaxGuests: cfg.Booking.MaxGuests,
		}
	},
	func(cfg config.Config) queries.Currency {
		return queries.Currency(cfg.Booking.Currency)
	},
	func(cfg config.Config) queries.OccupancyWindowDays {
		return queries.OccupancyWindowDays(cfg.Booking.OccupancyWindowDays)
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewPaymentCommands,
		commands.NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewBookingQueries,
		queries.NewAdminQueries,
		queries.NewAccountQueries,
	),
)

func NewPricingPolicy(cfg config.Config) *booking.NightlyRatePricing {
	return booking.NewNightlyRatePricing(cfg.Booking.NightlyRate)
}
