package usecase

import (
	"villa-reservation/internal/domain/user"
	"villa-reservation/internal/pkg/errs"
	"villa-reservation/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenValidator resolves an admin session token for the auth middleware.
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, user.Role, error)
}

type sessionTokenValidator struct {
	sessions *jwt.Service
}

func NewTokenValidator(sessions *jwt.Service) TokenValidator {
	return &sessionTokenValidator{sessions: sessions}
}

// ValidateToken rejects expired, forged and role-less tokens alike as Unauthenticated;
// the middleware does not distinguish between them in its response.
func (v *sessionTokenValidator) ValidateToken(tokenString string) (uuid.UUID, user.Role, error) {
	claims, err := v.sessions.Parse(tokenString)
	if err != nil {
		return uuid.Nil, "", errs.Mark(err, errs.ErrUnauthenticated)
	}
	if claims.AdminID == uuid.Nil {
		return uuid.Nil, "", errs.Mark(errs.New("session token has no subject"), errs.ErrUnauthenticated)
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", errs.Mark(err, errs.ErrUnauthenticated)
	}

	return claims.AdminID, role, nil
}
