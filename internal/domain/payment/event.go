package payment

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrMalformedEvent = errors.New("malformed gateway event")

// Event is the closed set of gateway notifications the orchestrator understands.
type Event interface {
	EventID() string
	EventType() string
	isEvent()
}

type PaymentSucceeded struct {
	ID        string
	IntentRef string
	BookingID uuid.UUID
	Amount    int64
}

type PaymentFailed struct {
	ID        string
	IntentRef string
	BookingID uuid.UUID
	Reason    string
}

// UnknownEvent is any event type the orchestrator does not act on.
type UnknownEvent struct {
	ID   string
	Type string
}

func (e PaymentSucceeded) EventID() string { return e.ID }
func (e PaymentFailed) EventID() string    { return e.ID }
func (e UnknownEvent) EventID() string     { return e.ID }

func (PaymentSucceeded) EventType() string { return TypeSucceeded }
func (PaymentFailed) EventType() string    { return TypeFailed }
func (e UnknownEvent) EventType() string   { return e.Type }

func (PaymentSucceeded) isEvent() {}
func (PaymentFailed) isEvent()    {}
func (UnknownEvent) isEvent()     {}

// Gateway event types the orchestrator acts on.
const (
	TypeSucceeded = "payment_intent.succeeded"
	TypeFailed    = "payment_intent.payment_failed"
)

type rawEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID               string            `json:"id"`
			Amount           int64             `json:"amount"`
			Metadata         map[string]string `json:"metadata"`
			LastPaymentError *struct {
				Message string `json:"message"`
			} `json:"last_payment_error"`
		} `json:"object"`
	} `json:"data"`
}

// ParseEvent decodes a verified webhook body. Known event types without a usable
// booking id are malformed; unknown types are returned as UnknownEvent.
func ParseEvent(body []byte) (Event, error) {
	var raw rawEvent
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if raw.ID == "" || raw.Type == "" {
		return nil, fmt.Errorf("%w: missing id or type", ErrMalformedEvent)
	}

	obj := raw.Data.Object
	switch raw.Type {
	case TypeSucceeded, TypeFailed:
		if obj.ID == "" {
			return nil, fmt.Errorf("%w: missing intent id", ErrMalformedEvent)
		}
		bookingID, err := uuid.Parse(obj.Metadata[MetaBookingID])
		if err != nil {
			return nil, fmt.Errorf("%w: missing booking id in metadata", ErrMalformedEvent)
		}
		if raw.Type == TypeSucceeded {
			return PaymentSucceeded{ID: raw.ID, IntentRef: obj.ID, BookingID: bookingID, Amount: obj.Amount}, nil
		}
		reason := ""
		if obj.LastPaymentError != nil {
			reason = obj.LastPaymentError.Message
		}
		return PaymentFailed{ID: raw.ID, IntentRef: obj.ID, BookingID: bookingID, Reason: reason}, nil
	default:
		return UnknownEvent{ID: raw.ID, Type: raw.Type}, nil
	}
}
