package converter

import (
	"fmt"
	"time"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// BookingColumns is the projection every booking scan expects, in order.
const BookingColumns = `id, check_in, check_out, adults, children, guest_name, guest_email, guest_phone,
	special_requests, total_amount, payment_status, payment_intent_ref, intent_generation,
	confirmation_code, refund_amount, admin_notes, paid_at, cancelled_at, created_at, updated_at`

type BookingRow struct {
	ID               uuid.UUID
	CheckIn          time.Time
	CheckOut         time.Time
	Adults           int32
	Children         int32
	GuestName        string
	GuestEmail       string
	GuestPhone       pgtype.Text
	SpecialRequests  pgtype.Text
	TotalAmount      int64
	Status           string
	IntentRef        pgtype.Text
	IntentGeneration int32
	ConfirmationCode string
	RefundAmount     pgtype.Int8
	AdminNotes       pgtype.Text
	PaidAt           pgtype.Timestamptz
	CancelledAt      pgtype.Timestamptz
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func ScanBookingRow(row pgx.Row) (BookingRow, error) {
	var r BookingRow
	err := row.Scan(
		&r.ID, &r.CheckIn, &r.CheckOut, &r.Adults, &r.Children, &r.GuestName, &r.GuestEmail, &r.GuestPhone,
		&r.SpecialRequests, &r.TotalAmount, &r.Status, &r.IntentRef, &r.IntentGeneration,
		&r.ConfirmationCode, &r.RefundAmount, &r.AdminNotes, &r.PaidAt, &r.CancelledAt, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// BookingToDomain fails only for rows that violate the table's own constraints.
func BookingToDomain(r BookingRow) (*booking.Booking, error) {
	dates, err := booking.NewDateRange(r.CheckIn, r.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", r.ID, err)
	}
	guest, err := booking.NewGuestContact(r.GuestName, r.GuestEmail, r.GuestPhone.String)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", r.ID, err)
	}
	status, err := booking.ParseStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", r.ID, err)
	}

	var refund *booking.Money
	if r.RefundAmount.Valid {
		m := booking.Money(r.RefundAmount.Int64)
		refund = &m
	}

	return booking.Reconstruct(booking.Snapshot{
		ID:               r.ID,
		Range:            dates,
		Adults:           int(r.Adults),
		Children:         int(r.Children),
		Guest:            guest,
		SpecialRequests:  r.SpecialRequests.String,
		TotalAmount:      booking.Money(r.TotalAmount),
		Status:           status,
		IntentRef:        r.IntentRef.String,
		IntentGeneration: int(r.IntentGeneration),
		ConfirmationCode: booking.ConfirmationCode(r.ConfirmationCode),
		RefundAmount:     refund,
		AdminNotes:       r.AdminNotes.String,
		PaidAt:           pgconv.TimePtrFromPgtype(r.PaidAt),
		CancelledAt:      pgconv.TimePtrFromPgtype(r.CancelledAt),
		CreatedAt:        r.CreatedAt.UTC(),
		UpdatedAt:        r.UpdatedAt.UTC(),
	}), nil
}

func RefundToPgtype(m *booking.Money) pgtype.Int8 {
	if m == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: m.Int64(), Valid: true}
}
