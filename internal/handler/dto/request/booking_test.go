//go:build unit

package request_test

import (
	"testing"
	"time"

	"villa-reservation/internal/domain/booking"
	reqdto "villa-reservation/internal/handler/dto/request"
	"villa-reservation/internal/handler/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityQuery_ToRange(t *testing.T) {
	t.Run("success: calendar days become a half-open range", func(t *testing.T) {
		r, err := reqdto.AvailabilityQuery{CheckIn: "2026-05-01", CheckOut: "2026-05-04"}.ToRange()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), r.CheckIn())
		assert.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), r.CheckOut())
	})

	tests := []struct {
		name  string
		query reqdto.AvailabilityQuery
		errIs error
	}{
		{"unparseable check-in", reqdto.AvailabilityQuery{CheckIn: "May-1", CheckOut: "2026-05-04"}, validation.ErrInvalidDate},
		{"empty check-out", reqdto.AvailabilityQuery{CheckIn: "2026-05-01"}, validation.ErrInvalidDate},
		{"check-out before check-in", reqdto.AvailabilityQuery{CheckIn: "2026-05-04", CheckOut: "2026-05-01"}, booking.ErrInvalidDateRange},
	}
	for _, tc := range tests {
		t.Run("error: "+tc.name, func(t *testing.T) {
			_, err := tc.query.ToRange()
			assert.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestCreateBookingRequest_ToInput(t *testing.T) {
	req := reqdto.CreateBookingRequest{
		CheckIn: "2026-05-01", CheckOut: "not-a-date", Adults: 2, GuestName: "Hanako", GuestEmail: "h@example.com",
	}
	_, err := req.ToInput()
	assert.ErrorIs(t, err, validation.ErrInvalidDate)

	req.CheckOut = "2026-05-03"
	in, err := req.ToInput()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC), in.CheckOut)
}
