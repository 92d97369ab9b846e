package queries

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/pkg/clock"
	"villa-reservation/internal/pkg/errs"

	"github.com/google/uuid"
)

type AvailabilityReadStore interface {
	// FindOverlapping returns occupying bookings whose interval intersects r.
	FindOverlapping(ctx context.Context, r booking.DateRange, exclude *uuid.UUID) ([]OccupancyView, error)
	// ListOccupyingFrom returns occupying bookings that check out after from.
	ListOccupyingFrom(ctx context.Context, from time.Time) ([]OccupancyView, error)
}

type AvailabilityQuote struct {
	Available     bool
	TotalAmount   int64
	PricePerNight int64
	Nights        int64
	Currency      string
}

type AvailabilityQueries interface {
	IsAvailable(ctx context.Context, r booking.DateRange, exclude *uuid.UUID) (bool, error)
	OccupiedDates(ctx context.Context) ([]time.Time, error)
	Quote(ctx context.Context, r booking.DateRange) (*AvailabilityQuote, error)
}

type availabilityQueriesImpl struct {
	store    AvailabilityReadStore
	pricing  booking.PricingPolicy
	clock    clock.Clock
	currency string
}

func NewAvailabilityQueries(store AvailabilityReadStore, pricing booking.PricingPolicy, clk clock.Clock, currency Currency) AvailabilityQueries {
	return &availabilityQueriesImpl{
		store:    store,
		pricing:  pricing,
		clock:    clk,
		currency: string(currency),
	}
}

// Currency is injected separately so fx can tell it apart from other strings.
type Currency string

func (q *availabilityQueriesImpl) IsAvailable(ctx context.Context, r booking.DateRange, exclude *uuid.UUID) (bool, error) {
	overlapping, err := q.store.FindOverlapping(ctx, r, exclude)
	if err != nil {
		slog.Warn("availability lookup failed", "check_in", r.CheckIn(), "check_out", r.CheckOut(), "error", err.Error())
		return false, errs.Mark(errs.Wrap(err, "find overlapping bookings"), errs.ErrAvailabilityUnknown)
	}
	for _, o := range overlapping {
		if exclude != nil && o.ID == *exclude {
			continue
		}
		return false, nil
	}
	return true, nil
}

// OccupiedDates covers today onwards; past stays are irrelevant to a date picker.
func (q *availabilityQueriesImpl) OccupiedDates(ctx context.Context) ([]time.Time, error) {
	today := booking.StartOfDay(q.clock.Now())
	views, err := q.store.ListOccupyingFrom(ctx, today)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "list occupying bookings"), errs.ErrAvailabilityUnknown)
	}

	seen := make(map[time.Time]struct{})
	dates := make([]time.Time, 0)
	for _, v := range views {
		r, err := booking.NewDateRange(v.CheckIn, v.CheckOut)
		if err != nil {
			slog.Warn("skipping booking with invalid range", "booking_id", v.ID)
			continue
		}
		for _, d := range r.Days() {
			if d.Before(today) {
				continue
			}
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return dates, nil
}

func (q *availabilityQueriesImpl) Quote(ctx context.Context, r booking.DateRange) (*AvailabilityQuote, error) {
	available, err := q.IsAvailable(ctx, r, nil)
	if err != nil {
		return nil, err
	}
	return &AvailabilityQuote{
		Available:     available,
		TotalAmount:   q.pricing.Total(r).Int64(),
		PricePerNight: q.pricing.NightlyRate().Int64(),
		Nights:        r.Nights(),
		Currency:      q.currency,
	}, nil
}
