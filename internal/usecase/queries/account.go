package queries

import (
	"context"

	"villa-reservation/internal/infra"
	"villa-reservation/internal/pkg/errs"

	"github.com/google/uuid"
)

type AdminAccountReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AdminAccountView, error)
}

type AccountQueries interface {
	Me(ctx context.Context, adminID uuid.UUID) (*AdminAccountView, error)
}

type accountQueriesImpl struct {
	store AdminAccountReadStore
}

func NewAccountQueries(store AdminAccountReadStore) AccountQueries {
	return &accountQueriesImpl{store: store}
}

func (q *accountQueriesImpl) Me(ctx context.Context, adminID uuid.UUID) (*AdminAccountView, error) {
	v, err := q.store.FindByID(ctx, adminID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrNotFound)
		}
		return nil, errs.Wrap(err, "find admin account")
	}
	if !v.IsActive {
		return nil, errs.Mark(errs.New("account is inactive"), errs.ErrForbidden)
	}
	return v, nil
}
