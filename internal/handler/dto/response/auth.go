package response

import (
	"time"

	"villa-reservation/internal/usecase/commands"
	"villa-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type AdminResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Admin       AdminResponse `json:"admin"`
}

func FromLoginResult(r *commands.LoginResult) LoginResponse {
	return LoginResponse{
		AccessToken: r.Token,
		ExpiresAt:   r.ExpiresAt,
		Admin: AdminResponse{
			ID:    r.AdminID,
			Email: r.Email,
			Role:  r.Role.String(),
		},
	}
}

func FromAdminAccount(v *queries.AdminAccountView) AdminResponse {
	return AdminResponse{
		ID:          v.ID,
		Email:       v.Email,
		Role:        v.Role,
		LastLoginAt: v.LastLoginAt,
	}
}
