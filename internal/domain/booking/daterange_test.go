//go:build unit

package booking_test

import (
	"testing"
	"time"

	"villa-reservation/internal/domain/booking"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDateRange(t *testing.T) {
	_, err := booking.NewDateRange(date(2025, 6, 4), date(2025, 6, 1))
	assert.ErrorIs(t, err, booking.ErrInvalidDateRange)

	_, err = booking.NewDateRange(date(2025, 6, 1), date(2025, 6, 1))
	assert.ErrorIs(t, err, booking.ErrInvalidDateRange)

	r, err := booking.NewDateRange(date(2025, 6, 1), date(2025, 6, 4))
	require.NoError(t, err)
	assert.Equal(t, int64(3), r.Nights())
}

func TestDateRangeOverlaps(t *testing.T) {
	base := mustRange(t, date(2025, 6, 1), date(2025, 6, 4))

	cases := []struct {
		name string
		in   time.Time
		out  time.Time
		want bool
	}{
		{name: "同一期間", in: date(2025, 6, 1), out: date(2025, 6, 4), want: true},
		{name: "内包", in: date(2025, 6, 2), out: date(2025, 6, 3), want: true},
		{name: "前側で重なる", in: date(2025, 5, 30), out: date(2025, 6, 2), want: true},
		{name: "チェックアウト日にチェックインは重ならない", in: date(2025, 6, 4), out: date(2025, 6, 6), want: false},
		{name: "チェックイン日にチェックアウトは重ならない", in: date(2025, 5, 29), out: date(2025, 6, 1), want: false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			other := mustRange(t, c.in, c.out)
			assert.Equal(t, c.want, base.Overlaps(other))
			assert.Equal(t, c.want, other.Overlaps(base))
		})
	}
}

func TestDateRangeDays(t *testing.T) {
	r := mustRange(t, date(2025, 6, 1), date(2025, 6, 4))
	want := []time.Time{date(2025, 6, 1), date(2025, 6, 2), date(2025, 6, 3)}
	if diff := cmp.Diff(want, r.Days()); diff != "" {
		t.Errorf("Days mismatch (-want +got):\n%s", diff)
	}

	partial := mustRange(t, date(2025, 6, 1).Add(15*time.Hour), date(2025, 6, 2).Add(10*time.Hour))
	want = []time.Time{date(2025, 6, 1), date(2025, 6, 2)}
	if diff := cmp.Diff(want, partial.Days()); diff != "" {
		t.Errorf("Days mismatch for partial range (-want +got):\n%s", diff)
	}

	assert.True(t, r.Contains(date(2025, 6, 3)))
	assert.False(t, r.Contains(date(2025, 6, 4)))
}
