package queries

import (
	"context"
	"math"
	"time"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/pkg/clock"
	"villa-reservation/internal/pkg/errs"

	"github.com/google/uuid"
)

const AdminPageSize = 100

// ReportReadStore has no write methods; reporting cannot mutate bookings through it.
type ReportReadStore interface {
	List(ctx context.Context, filter AdminBookingFilter, limit int) ([]BookingView, error)
	CountByStatus(ctx context.Context, filter AdminBookingFilter) (map[string]int64, error)
	CompletedRevenue(ctx context.Context) (int64, error)
	// OccupyingCheckInBetween returns occupying bookings whose check-in is in [from, to).
	OccupyingCheckInBetween(ctx context.Context, from, to time.Time) ([]OccupancyView, error)
}

type AdminBookingFilter struct {
	Status *booking.Status
	From   *time.Time
	To     *time.Time

	// keyset position, decoded from the opaque cursor
	AfterCreatedAt *time.Time
	AfterID        *uuid.UUID
}

type AdminStats struct {
	Revenue         int64            `json:"revenue"`
	OccupancyRate   float64          `json:"occupancy_rate"`
	OccupancyWindow int              `json:"occupancy_window_days"`
	OccupiedNights  int64            `json:"occupied_nights"`
	CountsByStatus  map[string]int64 `json:"counts_by_status"`
	TotalBookings   int64            `json:"total_bookings"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

type AdminBookingList struct {
	Bookings   []BookingView
	Stats      *AdminStats
	NextCursor string
}

type AdminQueries interface {
	Stats(ctx context.Context) (*AdminStats, error)
	ListBookings(ctx context.Context, filter AdminBookingFilter, cursor string) (*AdminBookingList, error)
}

type adminQueriesImpl struct {
	store      ReportReadStore
	clock      clock.Clock
	windowDays int
}

// OccupancyWindowDays is the forward window for the occupancy rate.
type OccupancyWindowDays int

func NewAdminQueries(store ReportReadStore, clk clock.Clock, window OccupancyWindowDays) AdminQueries {
	days := int(window)
	if days <= 0 {
		days = 30
	}
	return &adminQueriesImpl{store: store, clock: clk, windowDays: days}
}

func (q *adminQueriesImpl) Stats(ctx context.Context) (*AdminStats, error) {
	return q.stats(ctx, AdminBookingFilter{})
}

func (q *adminQueriesImpl) ListBookings(ctx context.Context, filter AdminBookingFilter, cursor string) (*AdminBookingList, error) {
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return nil, errs.Mark(errs.New("to must be after from"), errs.ErrInvalidArgument)
	}
	if cursor != "" {
		at, id, err := DecodeAfterCursor(cursor)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrInvalidArgument)
		}
		filter.AfterCreatedAt, filter.AfterID = &at, &id
	}

	rows, err := q.store.List(ctx, filter, AdminPageSize)
	if err != nil {
		return nil, errs.Wrap(err, "list bookings")
	}

	statsFilter := filter
	statsFilter.AfterCreatedAt, statsFilter.AfterID = nil, nil
	stats, err := q.stats(ctx, statsFilter)
	if err != nil {
		return nil, err
	}

	out := &AdminBookingList{Bookings: rows, Stats: stats}
	if len(rows) == AdminPageSize {
		last := rows[len(rows)-1]
		out.NextCursor = EncodeAfterCursor(last.CreatedAt, last.ID)
	}
	return out, nil
}

func (q *adminQueriesImpl) stats(ctx context.Context, filter AdminBookingFilter) (*AdminStats, error) {
	now := q.clock.Now()

	revenue, err := q.store.CompletedRevenue(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "sum completed revenue")
	}

	counts, err := q.store.CountByStatus(ctx, filter)
	if err != nil {
		return nil, errs.Wrap(err, "count bookings by status")
	}
	buckets := make(map[string]int64, len(booking.Statuses))
	var total int64
	for _, s := range booking.Statuses {
		buckets[s.String()] = counts[s.String()]
		total += counts[s.String()]
	}

	from := booking.StartOfDay(now)
	to := from.AddDate(0, 0, q.windowDays)
	occupying, err := q.store.OccupyingCheckInBetween(ctx, from, to)
	if err != nil {
		return nil, errs.Wrap(err, "list occupying bookings")
	}
	nights := OccupiedNights(occupying)

	return &AdminStats{
		Revenue:         revenue,
		OccupancyRate:   OccupancyRate(nights, q.windowDays),
		OccupancyWindow: q.windowDays,
		OccupiedNights:  nights,
		CountsByStatus:  buckets,
		TotalBookings:   total,
		GeneratedAt:     now,
	}, nil
}

func OccupiedNights(views []OccupancyView) int64 {
	var nights int64
	for _, v := range views {
		r, err := booking.NewDateRange(v.CheckIn, v.CheckOut)
		if err != nil {
			continue
		}
		nights += r.Nights()
	}
	return nights
}

// OccupancyRate is capped at 1 because a stay starting late in the window may run past it.
func OccupancyRate(nights int64, windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}
	rate := float64(nights) / float64(windowDays)
	rate = math.Min(rate, 1)
	return math.Round(rate*10000) / 10000
}
