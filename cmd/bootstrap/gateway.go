package bootstrap

import (
	"villa-reservation/internal/handler/api"
	"villa-reservation/internal/infra/gateway"
	"villa-reservation/internal/pkg/config"
	"villa-reservation/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewGatewayClient,
			fx.As(new(commands.PaymentGateway)),
		),
		fx.Annotate(
			NewSignatureVerifier,
			fx.As(new(api.SignatureVerifier)),
		),
		NewRetryPolicy,
	),
)

func NewGatewayClient(cfg config.Config) *gateway.Client {
	return gateway.NewClient(cfg.Payment)
}

func NewSignatureVerifier(cfg config.Config) *gateway.Verifier {
	return gateway.NewVerifier(cfg.Payment.WebhookSecret, cfg.Payment.WebhookTolerance)
}

func NewRetryPolicy(cfg config.Config) commands.RetryPolicy {
	p := commands.DefaultRetryPolicy()
	if cfg.Payment.MaxAttempts > 0 {
		p.MaxAttempts = cfg.Payment.MaxAttempts
	}
	return p
}
