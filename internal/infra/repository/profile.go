package repository

import (
	"context"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/infra"
	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/pkg/pgconv"
)

type ProfileRepository struct{}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{}
}

// UpsertForBooking keeps the latest contact details and appends the booking id.
func (r *ProfileRepository) UpsertForBooking(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	guest := b.Guest()
	_, err := tx.Exec(ctx, `
		INSERT INTO user_profiles (email, name, phone, total_bookings, booking_ids, created_at, updated_at)
		VALUES ($1, $2, $3, 1, ARRAY[$4::uuid], $5, $5)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			phone = COALESCE(EXCLUDED.phone, user_profiles.phone),
			total_bookings = user_profiles.total_bookings + 1,
			booking_ids = array_append(user_profiles.booking_ids, $4::uuid),
			updated_at = EXCLUDED.updated_at`,
		guest.Email().Value(), guest.Name(), pgconv.OptionalText(guest.Phone()), b.ID(), b.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to upsert user profile", err)
	}
	return nil
}
