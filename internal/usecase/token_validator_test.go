//go:build unit

package usecase_test

import (
	"testing"
	"time"

	"villa-reservation/internal/domain/user"
	"villa-reservation/internal/pkg/errs"
	"villa-reservation/internal/pkg/jwt"
	"villa-reservation/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenValidator(t *testing.T) {
	sessions := jwt.NewService("test-secret-key-32-bytes-long-xx", time.Hour)
	validator := usecase.NewTokenValidator(sessions)

	t.Run("issued token resolves to admin and role", func(t *testing.T) {
		adminID := uuid.New()
		token, err := sessions.Issue(adminID, user.RoleStaff)
		require.NoError(t, err)

		gotID, gotRole, err := validator.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, adminID, gotID)
		assert.Equal(t, user.RoleStaff, gotRole)
	})

	t.Run("token signed with another key is unauthenticated", func(t *testing.T) {
		forged, err := jwt.NewService("some-other-secret-key-32-bytes-x", time.Hour).Issue(uuid.New(), user.RoleAdmin)
		require.NoError(t, err)

		_, _, err = validator.ValidateToken(forged)
		require.Error(t, err)
		assert.Equal(t, errs.KindUnauthenticated, errs.KindOf(err))
	})

	t.Run("expired token is unauthenticated", func(t *testing.T) {
		expired, err := jwt.NewService("test-secret-key-32-bytes-long-xx", -time.Minute).Issue(uuid.New(), user.RoleAdmin)
		require.NoError(t, err)

		_, _, err = validator.ValidateToken(expired)
		require.Error(t, err)
		assert.Equal(t, errs.KindUnauthenticated, errs.KindOf(err))
	})

	t.Run("garbage is unauthenticated", func(t *testing.T) {
		_, _, err := validator.ValidateToken("not.a.jwt")
		assert.Equal(t, errs.KindUnauthenticated, errs.KindOf(err))
	})
}
