//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"villa-reservation/internal/pkg/clock"
	"villa-reservation/internal/pkg/errs"
	"villa-reservation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAdmin(store *mockReportStore) queries.AdminQueries {
	return queries.NewAdminQueries(store, clock.NewMockClock(fixedNow), 30)
}

func expectStats(store *mockReportStore, counts map[string]int64, occupying []queries.OccupancyView) {
	store.On("CompletedRevenue", mock.Anything).Return(int64(450000), nil)
	store.On("CountByStatus", mock.Anything, mock.Anything).Return(counts, nil)
	store.On("OccupyingCheckInBetween", mock.Anything, day(0), day(30)).Return(occupying, nil)
}

func TestAdminQueries_Stats(t *testing.T) {
	store := &mockReportStore{}
	expectStats(store,
		map[string]int64{"pending": 2, "completed": 3, "cancelled": 1},
		[]queries.OccupancyView{occupancy(day(1), day(4)), occupancy(day(10), day(16))},
	)

	stats, err := newAdmin(store).Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(450000), stats.Revenue)
	assert.Equal(t, int64(6), stats.TotalBookings)
	assert.Equal(t, int64(9), stats.OccupiedNights)
	assert.InDelta(t, 0.3, stats.OccupancyRate, 0.0001)
	assert.Equal(t, 30, stats.OccupancyWindow)
	assert.Equal(t, map[string]int64{
		"pending": 2, "completed": 3, "failed": 0, "cancelled": 1, "refunded": 0,
	}, stats.CountsByStatus)
	assert.Equal(t, fixedNow, stats.GeneratedAt)
}

func TestOccupancyRate(t *testing.T) {
	tests := []struct {
		name   string
		nights int64
		window int
		want   float64
	}{
		{name: "empty", nights: 0, window: 30, want: 0},
		{name: "partial", nights: 10, window: 30, want: 0.3333},
		{name: "full", nights: 30, window: 30, want: 1},
		{name: "capped", nights: 45, window: 30, want: 1},
		{name: "no window", nights: 5, window: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, queries.OccupancyRate(tt.nights, tt.window), 0.00001)
		})
	}
}

func TestAdminQueries_ListBookings(t *testing.T) {
	ctx := context.Background()

	t.Run("full page yields a cursor for the last row", func(t *testing.T) {
		store := &mockReportStore{}
		rows := make([]queries.BookingView, queries.AdminPageSize)
		for i := range rows {
			rows[i] = queries.BookingView{ID: uuid.New(), CreatedAt: fixedNow.Add(-time.Duration(i) * time.Minute)}
		}
		store.On("List", mock.Anything, queries.AdminBookingFilter{}, queries.AdminPageSize).Return(rows, nil)
		expectStats(store, map[string]int64{}, nil)

		list, err := newAdmin(store).ListBookings(ctx, queries.AdminBookingFilter{}, "")
		require.NoError(t, err)
		require.NotEmpty(t, list.NextCursor)

		at, id, err := queries.DecodeAfterCursor(list.NextCursor)
		require.NoError(t, err)
		last := rows[len(rows)-1]
		assert.Equal(t, last.ID, id)
		assert.True(t, last.CreatedAt.Equal(at))
	})

	t.Run("cursor becomes the keyset position but not the stats filter", func(t *testing.T) {
		store := &mockReportStore{}
		afterID := uuid.New()
		afterAt := fixedNow.Add(-time.Hour)
		cursor := queries.EncodeAfterCursor(afterAt, afterID)

		store.On("List", mock.Anything, mock.MatchedBy(func(f queries.AdminBookingFilter) bool {
			return f.AfterID != nil && *f.AfterID == afterID && f.AfterCreatedAt.Equal(afterAt)
		}), queries.AdminPageSize).Return([]queries.BookingView{}, nil)
		store.On("CompletedRevenue", mock.Anything).Return(int64(0), nil)
		store.On("CountByStatus", mock.Anything, mock.MatchedBy(func(f queries.AdminBookingFilter) bool {
			return f.AfterID == nil && f.AfterCreatedAt == nil
		})).Return(map[string]int64{}, nil)
		store.On("OccupyingCheckInBetween", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

		list, err := newAdmin(store).ListBookings(ctx, queries.AdminBookingFilter{}, cursor)
		require.NoError(t, err)
		assert.Empty(t, list.NextCursor)
		store.AssertExpectations(t)
	})

	t.Run("invalid cursor", func(t *testing.T) {
		_, err := newAdmin(&mockReportStore{}).ListBookings(ctx, queries.AdminBookingFilter{}, "%%%")
		assert.Equal(t, errs.KindInvalidArgument, errs.KindOf(err))
	})

	t.Run("inverted date window", func(t *testing.T) {
		from, to := day(5), day(1)
		_, err := newAdmin(&mockReportStore{}).ListBookings(ctx, queries.AdminBookingFilter{From: &from, To: &to}, "")
		assert.Equal(t, errs.KindInvalidArgument, errs.KindOf(err))
	})
}

func TestCursor_Decode(t *testing.T) {
	for name, cursor := range map[string]string{
		"not base64":    "!!!",
		"wrong version": "djI6MTIzOmFiYw",
		"empty":         "",
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := queries.DecodeAfterCursor(cursor)
			assert.Error(t, err)
		})
	}
}
