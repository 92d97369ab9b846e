package booking

import (
	"errors"
	"time"
)

var ErrInvalidDateRange = errors.New("check-out must be after check-in")

const day = 24 * time.Hour

// DateRange is the half-open interval [checkIn, checkOut).
type DateRange struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	if !checkOut.After(checkIn) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{checkIn: checkIn.UTC(), checkOut: checkOut.UTC()}, nil
}

func (r DateRange) CheckIn() time.Time  { return r.checkIn }
func (r DateRange) CheckOut() time.Time { return r.checkOut }

func (r DateRange) Duration() time.Duration {
	return r.checkOut.Sub(r.checkIn)
}

// Nights rounds a partial day up to a full night.
func (r DateRange) Nights() int64 {
	d := r.Duration()
	n := int64(d / day)
	if d%day != 0 {
		n++
	}
	return n
}

func (r DateRange) Overlaps(other DateRange) bool {
	return r.checkIn.Before(other.checkOut) && r.checkOut.After(other.checkIn)
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.checkIn) && t.Before(r.checkOut)
}

// Days expands the range into the UTC calendar days it touches, excluding the day
// checkOut falls on when checkOut is exactly midnight.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := truncateDay(r.checkIn); d.Before(r.checkOut); d = d.Add(day) {
		days = append(days, d)
	}
	return days
}

func (r DateRange) IsZero() bool {
	return r.checkIn.IsZero() && r.checkOut.IsZero()
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfDay returns midnight UTC of the day containing t.
func StartOfDay(t time.Time) time.Time {
	return truncateDay(t)
}
