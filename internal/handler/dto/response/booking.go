package response

import (
	"time"

	"villa-reservation/internal/pkg/errs"
	"villa-reservation/internal/usecase/commands"
	"villa-reservation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID               uuid.UUID  `json:"id"`
	CheckIn          time.Time  `json:"checkIn"`
	CheckOut         time.Time  `json:"checkOut"`
	Adults           int        `json:"adults"`
	Children         int        `json:"children"`
	GuestName        string     `json:"guestName"`
	GuestEmail       string     `json:"guestEmail"`
	GuestPhone       *string    `json:"guestPhone,omitempty"`
	SpecialRequests  *string    `json:"specialRequests,omitempty"`
	TotalAmount      int64      `json:"totalAmount"`
	Currency         string     `json:"currency"`
	Status           string     `json:"paymentStatus"`
	ConfirmationCode string     `json:"confirmationCode"`
	IntentRef        *string    `json:"paymentIntentId,omitempty"`
	RefundAmount     *int64     `json:"refundAmount,omitempty"`
	AdminNotes       *string    `json:"adminNotes,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// FromBookingView copies field-for-field; names match the read model.
func FromBookingView(v *queries.BookingView) (BookingResponse, error) {
	var out BookingResponse
	if v == nil {
		return out, nil
	}
	if err := copier.Copy(&out, v); err != nil {
		return BookingResponse{}, errs.Wrapf(err, "render booking %s", v.ID)
	}
	return out, nil
}

func FromBookingViews(vs []queries.BookingView) ([]BookingResponse, error) {
	out := make([]BookingResponse, 0, len(vs))
	for i := range vs {
		b, err := FromBookingView(&vs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

type CreateBookingResponse struct {
	BookingID        uuid.UUID       `json:"bookingId"`
	TotalAmount      int64           `json:"totalAmount"`
	ConfirmationCode string          `json:"confirmationCode"`
	Status           string          `json:"paymentStatus"`
	Booking          BookingResponse `json:"booking"`
}

func FromCreateResult(r *commands.CreateBookingResult) (CreateBookingResponse, error) {
	b, err := FromBookingView(r.Booking)
	if err != nil {
		return CreateBookingResponse{}, err
	}
	return CreateBookingResponse{
		BookingID:        r.Booking.ID,
		TotalAmount:      r.Booking.TotalAmount,
		ConfirmationCode: r.Booking.ConfirmationCode,
		Status:           r.Booking.Status,
		Booking:          b,
	}, nil
}

type CancelResponse struct {
	RefundAmount     int64  `json:"refundAmount"`
	RefundTier       string `json:"refundTier"`
	RefundPercentage int    `json:"refundPercentage"`
	Status           string `json:"paymentStatus"`
}

func FromCancelResult(r *commands.CancelResult) CancelResponse {
	return CancelResponse{
		RefundAmount:     r.RefundAmount,
		RefundTier:       string(r.RefundTier),
		RefundPercentage: r.RefundTier.Percentage(),
		Status:           r.Status.String(),
	}
}

type ProfileResponse struct {
	Email         string      `json:"email"`
	Name          string      `json:"name"`
	Phone         *string     `json:"phone,omitempty"`
	TotalBookings int         `json:"totalBookings"`
	BookingIDs    []uuid.UUID `json:"bookingIds"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type UserBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Profile  *ProfileResponse  `json:"profile"`
}

func FromGuestBookings(g *queries.GuestBookings) (UserBookingsResponse, error) {
	bookings, err := FromBookingViews(g.Bookings)
	if err != nil {
		return UserBookingsResponse{}, err
	}
	out := UserBookingsResponse{Bookings: bookings}
	if g.Profile != nil {
		var p ProfileResponse
		if err := copier.Copy(&p, g.Profile); err != nil {
			return UserBookingsResponse{}, errs.Wrap(err, "render guest profile")
		}
		out.Profile = &p
	}
	return out, nil
}
