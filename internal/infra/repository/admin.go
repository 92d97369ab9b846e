package repository

import (
	"context"
	"time"

	"villa-reservation/internal/domain/user"
	"villa-reservation/internal/infra"
	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/pkg/pgconv"
	"villa-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type AdminRepository struct {
	db db.DBTX
}

func NewAdminRepository(db db.DBTX) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*shared.AdminAccount, error) {
	var a shared.AdminAccount
	err := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, role, is_active
		FROM admin_users WHERE email = $1`, email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "admin not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find admin by email", err)
	}
	return &a, nil
}

func (r *AdminRepository) UpdateLastLogin(ctx context.Context, tx db.DBTX, adminID uuid.UUID, at time.Time) error {
	_, err := tx.Exec(ctx, `UPDATE admin_users SET last_login_at = $2, updated_at = $2 WHERE id = $1`, adminID, at)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update last login", err)
	}
	return nil
}

// Upsert creates or re-activates an account; used when provisioning back-office users.
func (r *AdminRepository) Upsert(ctx context.Context, tx db.DBTX, email user.Email, passwordHash string, role user.Role) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO admin_users (email, password_hash, role, is_active)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (email) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			is_active = true,
			updated_at = now()
		RETURNING id`,
		email.Value(), passwordHash, role.String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to upsert admin", err)
	}
	return id, nil
}
