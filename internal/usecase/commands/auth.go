package commands

import (
	"context"
	"log/slog"
	"time"

	"villa-reservation/internal/domain/user"
	"villa-reservation/internal/infra"
	"villa-reservation/internal/pkg/clock"
	"villa-reservation/internal/pkg/errs"
	"villa-reservation/internal/pkg/jwt"
	"villa-reservation/internal/pkg/password"
	"villa-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrAccountInactive    = errs.New("account inactive")
)

type LoginResult struct {
	AdminID   uuid.UUID
	Email     string
	Role      user.Role
	Token     string
	ExpiresAt time.Time
}

type AuthCommands interface {
	Login(ctx context.Context, email, plainPassword string) (*LoginResult, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	jwtService *jwt.Service
	clock      clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, jwtService *jwt.Service, clk clock.Clock) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		jwtService: jwtService,
		clock:      clk,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	credentials, err := user.NewCredentials(email, plainPassword)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidArgument)
	}

	account, err := a.validate(ctx, credentials)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(account.Role)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInternal)
	}

	token, err := a.jwtService.Issue(account.ID, role)
	if err != nil {
		return nil, errs.Wrap(err, "issue admin token")
	}

	now := a.clock.Now()
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Admins().UpdateLastLogin(ctx, tx.DB(), account.ID, now)
	})
	if err != nil {
		// Login already succeeded; a stale last_login_at is acceptable.
		slog.Warn("failed to update last login", "admin_id", account.ID, "error", err.Error())
	}

	slog.Info("admin logged in", "admin_id", account.ID, "role", role)
	return &LoginResult{
		AdminID:   account.ID,
		Email:     account.Email,
		Role:      role,
		Token:     token,
		ExpiresAt: now.Add(a.jwtService.TTL()),
	}, nil
}

func (a *authCommandsImpl) validate(ctx context.Context, credentials user.Credentials) (*shared.AdminAccount, error) {
	account, err := a.uow.CommandReads().AdminByEmail(ctx, credentials.Email().Value())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Same error as a wrong password so emails cannot be enumerated.
			return nil, errs.Mark(ErrInvalidCredentials, errs.ErrUnauthenticated)
		}
		return nil, errs.Wrap(err, "find admin account")
	}
	if !account.IsActive {
		return nil, errs.Mark(ErrAccountInactive, errs.ErrForbidden)
	}
	if err := password.Verify(account.PasswordHash, credentials.Password()); err != nil {
		return nil, errs.Mark(ErrInvalidCredentials, errs.ErrUnauthenticated)
	}
	return account, nil
}
