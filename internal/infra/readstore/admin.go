package readstore

import (
	"context"

	"villa-reservation/internal/infra"
	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/pkg/pgconv"
	"villa-reservation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type AdminAccountReadStore struct {
	db db.DBTX
}

func NewAdminAccountReadStore(db db.DBTX) *AdminAccountReadStore {
	return &AdminAccountReadStore{db: db}
}

func (r *AdminAccountReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AdminAccountView, error) {
	var (
		v         queries.AdminAccountView
		lastLogin pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, email, role, is_active, last_login_at
		FROM admin_users WHERE id = $1`, id,
	).Scan(&v.ID, &v.Email, &v.Role, &v.IsActive, &lastLogin)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "admin not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find admin by ID", err)
	}
	v.LastLoginAt = pgconv.TimePtrFromPgtype(lastLogin)
	return &v, nil
}
