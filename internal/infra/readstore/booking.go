package readstore

import (
	"context"
	"time"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/infra"
	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/pkg/pgconv"
	"villa-reservation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingViewColumns = `id, check_in, check_out, adults, children, guest_name, guest_email, guest_phone,
	special_requests, total_amount, currency, payment_status, payment_intent_ref, confirmation_code,
	refund_amount, admin_notes, paid_at, cancelled_at, created_at, updated_at`

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(db db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	v, err := scanBookingView(r.db.QueryRow(ctx, `SELECT `+bookingViewColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find booking by ID", err)
	}
	return v, nil
}

func (r *BookingReadStore) FindByGuestEmail(ctx context.Context, email string) ([]queries.BookingView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+bookingViewColumns+`
		FROM bookings
		WHERE guest_email = $1
		ORDER BY created_at DESC, id DESC`, email)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find bookings by guest email", err)
	}
	return collectBookingViews(rows)
}

func (r *BookingReadStore) ProfileByEmail(ctx context.Context, email string) (*queries.ProfileView, error) {
	var (
		p     queries.ProfileView
		phone pgtype.Text
		total int32
	)
	err := r.db.QueryRow(ctx, `
		SELECT email, name, phone, total_bookings, booking_ids, updated_at
		FROM user_profiles WHERE email = $1`, email,
	).Scan(&p.Email, &p.Name, &phone, &total, &p.BookingIDs, &p.UpdatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "profile not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find profile", err)
	}
	p.Phone = pgconv.StringPtrFromPgtype(phone)
	p.TotalBookings = int(total)
	return &p, nil
}

// FindOverlapping uses the half-open overlap test: existing.check_in < r.check_out AND
// existing.check_out > r.check_in.
func (r *BookingReadStore) FindOverlapping(ctx context.Context, dr booking.DateRange, exclude *uuid.UUID) ([]queries.OccupancyView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, check_in, check_out, payment_status
		FROM bookings
		WHERE payment_status = ANY($1)
		  AND check_in < $3
		  AND check_out > $2
		  AND ($4::uuid IS NULL OR id <> $4::uuid)
		ORDER BY check_in`,
		occupyingStatuses(), dr.CheckIn(), dr.CheckOut(), pgconv.UUIDPtrToPgtype(exclude),
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find overlapping bookings", err)
	}
	return collectOccupancy(rows)
}

func (r *BookingReadStore) ListOccupyingFrom(ctx context.Context, from time.Time) ([]queries.OccupancyView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, check_in, check_out, payment_status
		FROM bookings
		WHERE payment_status = ANY($1) AND check_out > $2
		ORDER BY check_in`,
		occupyingStatuses(), from,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list occupying bookings", err)
	}
	return collectOccupancy(rows)
}

func occupyingStatuses() []string {
	out := make([]string, len(booking.OccupyingStatuses))
	for i, s := range booking.OccupyingStatuses {
		out[i] = s.String()
	}
	return out
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var (
		v                                      queries.BookingView
		adults, children                       int32
		phone, requests, intentRef, adminNotes pgtype.Text
		refund                                 pgtype.Int8
		paidAt, cancelledAt                    pgtype.Timestamptz
	)
	err := row.Scan(
		&v.ID, &v.CheckIn, &v.CheckOut, &adults, &children, &v.GuestName, &v.GuestEmail, &phone,
		&requests, &v.TotalAmount, &v.Currency, &v.Status, &intentRef, &v.ConfirmationCode,
		&refund, &adminNotes, &paidAt, &cancelledAt, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Adults, v.Children = int(adults), int(children)
	v.GuestPhone = pgconv.StringPtrFromPgtype(phone)
	v.SpecialRequests = pgconv.StringPtrFromPgtype(requests)
	v.IntentRef = pgconv.StringPtrFromPgtype(intentRef)
	v.AdminNotes = pgconv.StringPtrFromPgtype(adminNotes)
	if refund.Valid {
		amount := refund.Int64
		v.RefundAmount = &amount
	}
	v.PaidAt = pgconv.TimePtrFromPgtype(paidAt)
	v.CancelledAt = pgconv.TimePtrFromPgtype(cancelledAt)
	v.CheckIn, v.CheckOut = v.CheckIn.UTC(), v.CheckOut.UTC()
	v.CreatedAt, v.UpdatedAt = v.CreatedAt.UTC(), v.UpdatedAt.UTC()
	return &v, nil
}

func collectBookingViews(rows pgx.Rows) ([]queries.BookingView, error) {
	defer rows.Close()
	out := make([]queries.BookingView, 0)
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booking", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate bookings", err)
	}
	return out, nil
}

func collectOccupancy(rows pgx.Rows) ([]queries.OccupancyView, error) {
	defer rows.Close()
	out := make([]queries.OccupancyView, 0)
	for rows.Next() {
		var v queries.OccupancyView
		if err := rows.Scan(&v.ID, &v.CheckIn, &v.CheckOut, &v.Status); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan occupancy", err)
		}
		v.CheckIn, v.CheckOut = v.CheckIn.UTC(), v.CheckOut.UTC()
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate occupancy", err)
	}
	return out, nil
}
