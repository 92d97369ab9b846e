//go:build unit

package queries_test

import (
	"context"
	"time"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return booking.StartOfDay(fixedNow).AddDate(0, 0, offset)
}

func occupancy(checkIn, checkOut time.Time) queries.OccupancyView {
	return queries.OccupancyView{ID: uuid.New(), CheckIn: checkIn, CheckOut: checkOut, Status: "pending"}
}

type mockAvailabilityStore struct {
	mock.Mock
}

func (m *mockAvailabilityStore) FindOverlapping(ctx context.Context, r booking.DateRange, exclude *uuid.UUID) ([]queries.OccupancyView, error) {
	args := m.Called(ctx, r, exclude)
	views, _ := args.Get(0).([]queries.OccupancyView)
	return views, args.Error(1)
}

func (m *mockAvailabilityStore) ListOccupyingFrom(ctx context.Context, from time.Time) ([]queries.OccupancyView, error) {
	args := m.Called(ctx, from)
	views, _ := args.Get(0).([]queries.OccupancyView)
	return views, args.Error(1)
}

type mockReportStore struct {
	mock.Mock
}

func (m *mockReportStore) List(ctx context.Context, filter queries.AdminBookingFilter, limit int) ([]queries.BookingView, error) {
	args := m.Called(ctx, filter, limit)
	rows, _ := args.Get(0).([]queries.BookingView)
	return rows, args.Error(1)
}

func (m *mockReportStore) CountByStatus(ctx context.Context, filter queries.AdminBookingFilter) (map[string]int64, error) {
	args := m.Called(ctx, filter)
	counts, _ := args.Get(0).(map[string]int64)
	return counts, args.Error(1)
}

func (m *mockReportStore) CompletedRevenue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReportStore) OccupyingCheckInBetween(ctx context.Context, from, to time.Time) ([]queries.OccupancyView, error) {
	args := m.Called(ctx, from, to)
	views, _ := args.Get(0).([]queries.OccupancyView)
	return views, args.Error(1)
}

type mockBookingStore struct {
	mock.Mock
}

func (m *mockBookingStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*queries.BookingView)
	return v, args.Error(1)
}

func (m *mockBookingStore) FindByGuestEmail(ctx context.Context, email string) ([]queries.BookingView, error) {
	args := m.Called(ctx, email)
	rows, _ := args.Get(0).([]queries.BookingView)
	return rows, args.Error(1)
}

func (m *mockBookingStore) ProfileByEmail(ctx context.Context, email string) (*queries.ProfileView, error) {
	args := m.Called(ctx, email)
	p, _ := args.Get(0).(*queries.ProfileView)
	return p, args.Error(1)
}
