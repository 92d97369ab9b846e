package components

import (
	"villa-reservation/internal/handler"
	"villa-reservation/internal/handler/api"
	"villa-reservation/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewBookingHandler,
		api.NewPaymentHandler,
		api.NewWebhookHandler,
		api.NewAdminHandler,
		api.NewAuthHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

type handlerParams struct {
	fx.In

	Availability *api.AvailabilityHandler
	Booking      *api.BookingHandler
	Payment      *api.PaymentHandler
	Webhook      *api.WebhookHandler
	Admin        *api.AdminHandler
	Auth         *api.AuthHandler
}

func newHandlers(p handlerParams) handler.Handlers {
	return handler.Handlers{
		Availability: p.Availability,
		Booking:      p.Booking,
		Payment:      p.Payment,
		Webhook:      p.Webhook,
		Admin:        p.Admin,
		Auth:         p.Auth,
	}
}
