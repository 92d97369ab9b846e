//go:build unit

package booking_test

import (
	"testing"

	"villa-reservation/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	allowed := map[booking.Status][]booking.Status{
		booking.StatusPending:   {booking.StatusCompleted, booking.StatusFailed, booking.StatusCancelled},
		booking.StatusCompleted: {booking.StatusCancelled, booking.StatusRefunded},
	}

	for _, from := range booking.Statuses {
		for _, to := range booking.Statuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	for _, s := range []booking.Status{booking.StatusFailed, booking.StatusCancelled, booking.StatusRefunded} {
		assert.True(t, s.IsTerminal(), s)
	}
	assert.False(t, booking.StatusPending.IsTerminal())
	assert.False(t, booking.StatusCompleted.IsTerminal())
}

func TestStatusOccupiesDates(t *testing.T) {
	assert.True(t, booking.StatusPending.OccupiesDates())
	assert.True(t, booking.StatusCompleted.OccupiesDates())
	assert.False(t, booking.StatusCancelled.OccupiesDates())
	assert.False(t, booking.StatusRefunded.OccupiesDates())
	assert.False(t, booking.StatusFailed.OccupiesDates())
}

func TestParseStatus(t *testing.T) {
	s, err := booking.ParseStatus("refunded")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusRefunded, s)

	_, err = booking.ParseStatus("confirmed")
	assert.ErrorIs(t, err, booking.ErrInvalidStatus)
}
