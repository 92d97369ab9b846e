package bootstrap

import (
	"villa-reservation/internal/pkg/config"
	"villa-reservation/internal/pkg/jwt"
	"villa-reservation/internal/usecase"

	"go.uber.org/fx"
)

// JWTModule provides admin session tokens and the validator the auth middleware uses.
var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
		usecase.NewTokenValidator,
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.JWT.Secret, cfg.JWT.Duration)
}
