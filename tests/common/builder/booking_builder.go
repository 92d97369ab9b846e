//go:build unit || e2e

package builder

import (
	"fmt"
	"sync/atomic"
	"time"

	"villa-reservation/internal/domain/booking"
	reqdto "villa-reservation/internal/handler/dto/request"
	"villa-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

const DefaultNightlyRate = 100000

var codeSeq atomic.Uint32

const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// nextCode yields distinct well-formed confirmation codes.
func nextCode(now time.Time) string {
	n := codeSeq.Add(1)
	suffix := make([]byte, 6)
	for i := len(suffix) - 1; i >= 0; i-- {
		suffix[i] = codeAlphabet[n%uint32(len(codeAlphabet))]
		n /= uint32(len(codeAlphabet))
	}
	return fmt.Sprintf("VR%s-%s", now.Format("060102"), suffix)
}

type BookingBuilder struct {
	ID               uuid.UUID
	CheckIn          time.Time
	CheckOut         time.Time
	Adults           int
	Children         int
	GuestName        string
	GuestEmail       string
	GuestPhone       string
	SpecialRequests  string
	Status           booking.Status
	IntentRef        string
	IntentGeneration int
	ConfirmationCode string
	CreatedAt        time.Time
}

// NewBookingBuilder returns a pending two-night stay starting ten days after now.
func NewBookingBuilder(now time.Time) *BookingBuilder {
	checkIn := booking.StartOfDay(now).AddDate(0, 0, 10)
	return &BookingBuilder{
		ID:               uuid.New(),
		CheckIn:          checkIn,
		CheckOut:         checkIn.AddDate(0, 0, 2),
		Adults:           2,
		Children:         0,
		GuestName:        "Jane Guest",
		GuestEmail:       "guest@example.com",
		GuestPhone:       "+81-90-0000-0000",
		Status:           booking.StatusPending,
		ConfirmationCode: nextCode(now),
		CreatedAt:        now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) Nights(n int) *BookingBuilder {
	b.CheckOut = b.CheckIn.AddDate(0, 0, n)
	return b
}

func (b *BookingBuilder) Total() booking.Money {
	r, _ := booking.NewDateRange(b.CheckIn, b.CheckOut)
	return booking.NewNightlyRatePricing(DefaultNightlyRate).Total(r)
}

// BuildDomain reconstructs a stored booking in the builder's status.
func (b *BookingBuilder) BuildDomain() *booking.Booking {
	r, err := booking.NewDateRange(b.CheckIn, b.CheckOut)
	if err != nil {
		panic(err)
	}
	guest, err := booking.NewGuestContact(b.GuestName, b.GuestEmail, b.GuestPhone)
	if err != nil {
		panic(err)
	}

	s := booking.Snapshot{
		ID:               b.ID,
		Range:            r,
		Adults:           b.Adults,
		Children:         b.Children,
		Guest:            guest,
		SpecialRequests:  b.SpecialRequests,
		TotalAmount:      b.Total(),
		Status:           b.Status,
		IntentRef:        b.IntentRef,
		IntentGeneration: b.IntentGeneration,
		ConfirmationCode: booking.ConfirmationCode(b.ConfirmationCode),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.CreatedAt,
	}
	if b.IntentRef != "" && s.IntentGeneration == 0 {
		s.IntentGeneration = 1
	}
	if b.Status == booking.StatusCompleted {
		paid := b.CreatedAt
		s.PaidAt = &paid
	}
	return booking.Reconstruct(s)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		CheckIn:         b.CheckIn.Format("2006-01-02"),
		CheckOut:        b.CheckOut.Format("2006-01-02"),
		Adults:          b.Adults,
		Children:        b.Children,
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		GuestPhone:      b.GuestPhone,
		SpecialRequests: b.SpecialRequests,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	v := &queries.BookingView{
		ID:               b.ID,
		CheckIn:          b.CheckIn,
		CheckOut:         b.CheckOut,
		Adults:           b.Adults,
		Children:         b.Children,
		GuestName:        b.GuestName,
		GuestEmail:       b.GuestEmail,
		TotalAmount:      b.Total().Int64(),
		Currency:         "jpy",
		Status:           b.Status.String(),
		ConfirmationCode: b.ConfirmationCode,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.CreatedAt,
	}
	if b.GuestPhone != "" {
		phone := b.GuestPhone
		v.GuestPhone = &phone
	}
	if b.IntentRef != "" {
		ref := b.IntentRef
		v.IntentRef = &ref
	}
	return v
}
