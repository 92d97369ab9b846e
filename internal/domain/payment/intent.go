package payment

import "github.com/google/uuid"

type IntentStatus string

const (
	IntentRequiresPaymentMethod IntentStatus = "requires_payment_method"
	IntentRequiresConfirmation  IntentStatus = "requires_confirmation"
	IntentRequiresAction        IntentStatus = "requires_action"
	IntentProcessing            IntentStatus = "processing"
	IntentSucceeded             IntentStatus = "succeeded"
	IntentCanceled              IntentStatus = "canceled"
)

// Open intents can still be paid and are reused instead of creating duplicates.
func (s IntentStatus) Open() bool {
	switch s {
	case IntentSucceeded, IntentCanceled:
		return false
	default:
		return true
	}
}

type Intent struct {
	Ref          string
	ClientSecret string
	Status       IntentStatus
	Amount       int64
	Currency     string
	Metadata     map[string]string
}

const (
	MetaBookingID        = "booking_id"
	MetaConfirmationCode = "confirmation_code"
	MetaGuestEmail       = "guest_email"
	MetaGuestName        = "guest_name"
)

// BookingID reads the booking id the intent was created for, if any.
func (i Intent) BookingID() (uuid.UUID, bool) {
	raw, ok := i.Metadata[MetaBookingID]
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

type Refund struct {
	Ref       string
	IntentRef string
	Amount    int64
	Status    string
}
