//go:build unit || e2e

// Package authtest obtains admin sessions for handler and e2e tests.
package authtest

import (
	"net/http"
	"testing"
	"time"

	"villa-reservation/internal/domain/user"
	"villa-reservation/internal/pkg/config"
	"villa-reservation/internal/pkg/cookie"
	"villa-reservation/internal/pkg/jwt"
	"villa-reservation/tests/common/builder"
	"villa-reservation/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const loginPath = "/api/auth/login"

// LoginAdmin logs in through the real endpoint and returns the session cookie value.
func LoginAdmin(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, loginPath,
		builder.NewLoginBuilder().Email(email).Password(password).BuildDTO(), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	session := httptest.ExtractCookie(w, cookie.AdminSessionCookieName)
	require.NotNil(t, session, "session cookie not set")
	require.NotEmpty(t, session.Value, "session cookie is empty")
	return session.Value
}

// IssueToken signs a session for an admin that need not exist in the database.
func IssueToken(t *testing.T, cfg config.JWTConfig, adminID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := jwt.NewService(cfg.Secret, cfg.Duration).Issue(adminID, role)
	require.NoError(t, err)
	return token
}

// ExpiredToken signs a session whose expiry is already in the past.
func ExpiredToken(t *testing.T, cfg config.JWTConfig, adminID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := jwt.NewService(cfg.Secret, -time.Minute).Issue(adminID, role)
	require.NoError(t, err)
	return token
}
