package queries

import (
	"context"

	"villa-reservation/internal/domain/user"
	"villa-reservation/internal/infra"
	"villa-reservation/internal/pkg/errs"

	"github.com/google/uuid"
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByGuestEmail(ctx context.Context, email string) ([]BookingView, error)
	ProfileByEmail(ctx context.Context, email string) (*ProfileView, error)
}

type GuestBookings struct {
	Bookings []BookingView
	Profile  *ProfileView
}

type BookingQueries interface {
	GetUserBookings(ctx context.Context, guestEmail string) (*GuestBookings, error)
	// GetForGuest returns the booking only when requesterEmail owns it.
	GetForGuest(ctx context.Context, id uuid.UUID, requesterEmail string) (*BookingView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetUserBookings(ctx context.Context, guestEmail string) (*GuestBookings, error) {
	email, err := user.NewEmail(guestEmail)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidArgument)
	}

	bookings, err := q.store.FindByGuestEmail(ctx, email.Value())
	if err != nil {
		return nil, errs.Wrap(err, "find bookings by guest email")
	}

	profile, err := q.store.ProfileByEmail(ctx, email.Value())
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Wrap(err, "find guest profile")
	}

	return &GuestBookings{Bookings: bookings, Profile: profile}, nil
}

func (q *bookingQueriesImpl) GetForGuest(ctx context.Context, id uuid.UUID, requesterEmail string) (*BookingView, error) {
	email, err := user.NewEmail(requesterEmail)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidArgument)
	}
	v, err := q.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.GuestEmail != email.Value() {
		return nil, errs.ErrForbidden
	}
	return v, nil
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	v, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrNotFound)
		}
		return nil, errs.Wrap(err, "find booking")
	}
	return v, nil
}
