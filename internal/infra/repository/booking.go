package repository

import (
	"context"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/infra"
	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/infra/repository/converter"
	"villa-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	constraintNoOverlap = "bookings_no_overlap"
)

type BookingRepository struct {
	db       db.DBTX
	currency string
}

func NewBookingRepository(db db.DBTX, currency string) *BookingRepository {
	return &BookingRepository{
		db:       db,
		currency: currency,
	}
}

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	s := b.Snapshot()
	_, err := tx.Exec(ctx, `
		INSERT INTO bookings (
			id, check_in, check_out, adults, children, guest_name, guest_email, guest_phone,
			special_requests, total_amount, currency, payment_status, payment_intent_ref,
			intent_generation, confirmation_code, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		s.ID, s.Range.CheckIn(), s.Range.CheckOut(), s.Adults, s.Children,
		s.Guest.Name(), s.Guest.Email().Value(), pgconv.OptionalText(s.Guest.Phone()),
		pgconv.OptionalText(s.SpecialRequests), s.TotalAmount.Int64(), r.currency, s.Status.String(),
		pgconv.OptionalText(s.IntentRef), s.IntentGeneration, s.ConfirmationCode.String(),
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		constraint, unique, exclusion := pgconv.ConstraintViolation(err)
		switch {
		case exclusion || constraint == constraintNoOverlap:
			return infra.WrapRepoErr(infra.KindConflict, "booking overlaps an occupying booking", err)
		case unique:
			return infra.WrapRepoErr(infra.KindDuplicateKey, "duplicate booking key "+constraint, err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) LockByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	return r.find(ctx, tx, `SELECT `+converter.BookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

// FindByID reads without a lock; callers must re-check state under LockByID before writing.
func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.find(ctx, r.db, `SELECT `+converter.BookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *BookingRepository) Update(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	s := b.Snapshot()
	tag, err := tx.Exec(ctx, `
		UPDATE bookings SET
			payment_status = $2,
			payment_intent_ref = $3,
			intent_generation = $4,
			refund_amount = $5,
			admin_notes = $6,
			paid_at = $7,
			cancelled_at = $8,
			updated_at = $9
		WHERE id = $1`,
		s.ID, s.Status.String(), pgconv.OptionalText(s.IntentRef), s.IntentGeneration,
		converter.RefundToPgtype(s.RefundAmount), pgconv.OptionalText(s.AdminNotes),
		pgconv.TimePtrToPgtype(s.PaidAt), pgconv.TimePtrToPgtype(s.CancelledAt), s.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	return nil
}

func (r *BookingRepository) find(ctx context.Context, q db.DBTX, sql string, id uuid.UUID) (*booking.Booking, error) {
	row, err := converter.ScanBookingRow(q.QueryRow(ctx, sql, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to load booking", err)
	}
	b, err := converter.BookingToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "stored booking is invalid", err)
	}
	return b, nil
}
