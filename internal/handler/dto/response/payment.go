package response

import (
	"villa-reservation/internal/usecase/commands"
	"villa-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type IntentResponse struct {
	BookingID       uuid.UUID `json:"bookingId"`
	PaymentIntentID string    `json:"paymentIntentId"`
	ClientSecret    string    `json:"clientSecret"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	Reused          bool      `json:"reused"`
}

func FromIntentResult(r *commands.IntentResult) IntentResponse {
	return IntentResponse{
		BookingID:       r.BookingID,
		PaymentIntentID: r.IntentRef,
		ClientSecret:    r.ClientSecret,
		Amount:          r.Amount,
		Currency:        r.Currency,
		Reused:          r.Reused,
	}
}

type ConfirmResponse struct {
	Status  string          `json:"paymentStatus"`
	Applied bool            `json:"applied"`
	Booking BookingResponse `json:"booking"`
}

func FromConfirmResult(r *commands.ConfirmResult) (ConfirmResponse, error) {
	b, err := FromBookingView(r.Booking)
	if err != nil {
		return ConfirmResponse{}, err
	}
	return ConfirmResponse{
		Status:  r.Booking.Status,
		Applied: r.Applied,
		Booking: b,
	}, nil
}

type AvailabilityResponse struct {
	Available     bool   `json:"available"`
	TotalAmount   int64  `json:"totalAmount"`
	PricePerNight int64  `json:"pricePerNight"`
	Nights        int64  `json:"nights"`
	Currency      string `json:"currency"`
}

func FromQuote(q *queries.AvailabilityQuote) AvailabilityResponse {
	return AvailabilityResponse{
		Available:     q.Available,
		TotalAmount:   q.TotalAmount,
		PricePerNight: q.PricePerNight,
		Nights:        q.Nights,
		Currency:      q.Currency,
	}
}

type OccupiedDatesResponse struct {
	Dates []string `json:"dates"`
}

type WebhookResponse struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome,omitempty"`
}
