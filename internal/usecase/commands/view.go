package commands

import (
	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/usecase/queries"
)

// viewOf renders the write model after commit so callers do not need a read-after-write.
func viewOf(b *booking.Booking, currency string) *queries.BookingView {
	v := &queries.BookingView{
		ID:               b.ID(),
		CheckIn:          b.Range().CheckIn(),
		CheckOut:         b.Range().CheckOut(),
		Adults:           b.Adults(),
		Children:         b.Children(),
		GuestName:        b.Guest().Name(),
		GuestEmail:       b.Guest().Email().Value(),
		TotalAmount:      b.TotalAmount().Int64(),
		Currency:         currency,
		Status:           b.Status().String(),
		ConfirmationCode: b.ConfirmationCode().String(),
		PaidAt:           b.PaidAt(),
		CancelledAt:      b.CancelledAt(),
		CreatedAt:        b.CreatedAt(),
		UpdatedAt:        b.UpdatedAt(),
	}
	if phone := b.Guest().Phone(); phone != "" {
		v.GuestPhone = &phone
	}
	if req := b.SpecialRequests(); req != "" {
		v.SpecialRequests = &req
	}
	if ref := b.IntentRef(); ref != "" {
		v.IntentRef = &ref
	}
	if notes := b.AdminNotes(); notes != "" {
		v.AdminNotes = &notes
	}
	if r := b.RefundAmount(); r != nil {
		amount := r.Int64()
		v.RefundAmount = &amount
	}
	return v
}
