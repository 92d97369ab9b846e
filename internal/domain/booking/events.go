package booking

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	KindBookingCreated   EventKind = "booking.created"
	KindPaymentCompleted EventKind = "payment.completed"
	KindPaymentFailed    EventKind = "payment.failed"
	KindBookingCancelled EventKind = "booking.cancelled"
)

// Event is what the lifecycle hands to the outbox; the notification side renders it.
type Event struct {
	Kind             EventKind `json:"kind"`
	BookingID        uuid.UUID `json:"bookingId"`
	ConfirmationCode string    `json:"confirmationCode"`
	GuestName        string    `json:"guestName"`
	GuestEmail       string    `json:"guestEmail"`
	CheckIn          time.Time `json:"checkIn"`
	CheckOut         time.Time `json:"checkOut"`
	Status           Status    `json:"status"`
	TotalAmount      int64     `json:"totalAmount"`
	RefundAmount     *int64    `json:"refundAmount,omitempty"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// Topic is the routing key used when the event is published.
func (e Event) Topic() string {
	return "villa." + string(e.Kind)
}
