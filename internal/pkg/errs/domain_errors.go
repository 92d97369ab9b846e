package errs

import "errors"

// Error taxonomy surfaced to callers. Usecases mark lower-level errors with one of these
// so handlers can map them without knowing where they came from.
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrUnavailable         = errors.New("dates are not available")
	ErrAvailabilityUnknown = errors.New("availability could not be determined")
	ErrNotFound            = errors.New("booking not found")
	ErrForbidden           = errors.New("requester does not own this booking")
	ErrAlreadyTerminal     = errors.New("booking is already in a terminal state")
	ErrAlreadyPaid         = errors.New("booking is already paid")
	ErrPaymentNotComplete  = errors.New("payment has not completed")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrInternal            = errors.New("internal error")
)

type Kind string

const (
	KindInvalidArgument     Kind = "InvalidArgument"
	KindUnavailable         Kind = "Unavailable"
	KindAvailabilityUnknown Kind = "AvailabilityUnknown"
	KindNotFound            Kind = "NotFound"
	KindForbidden           Kind = "Forbidden"
	KindAlreadyTerminal     Kind = "AlreadyTerminal"
	KindAlreadyPaid         Kind = "AlreadyPaid"
	KindPaymentNotComplete  Kind = "PaymentNotComplete"
	KindGatewayUnavailable  Kind = "GatewayUnavailable"
	KindInvalidSignature    Kind = "InvalidSignature"
	KindUnauthenticated     Kind = "Unauthenticated"
	KindInternal            Kind = "Internal"
)

var kindOrder = []struct {
	sentinel error
	kind     Kind
}{
	{ErrInvalidSignature, KindInvalidSignature},
	{ErrInvalidArgument, KindInvalidArgument},
	{ErrUnauthenticated, KindUnauthenticated},
	{ErrUnavailable, KindUnavailable},
	{ErrAvailabilityUnknown, KindAvailabilityUnknown},
	{ErrNotFound, KindNotFound},
	{ErrForbidden, KindForbidden},
	{ErrAlreadyTerminal, KindAlreadyTerminal},
	{ErrAlreadyPaid, KindAlreadyPaid},
	{ErrPaymentNotComplete, KindPaymentNotComplete},
	{ErrGatewayUnavailable, KindGatewayUnavailable},
}

// KindOf returns the taxonomy kind an error was marked with, or KindInternal.
func KindOf(err error) Kind {
	for _, k := range kindOrder {
		if Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindInternal
}

// Retryable reports whether the caller may retry the operation with backoff.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindGatewayUnavailable, KindAvailabilityUnknown:
		return true
	default:
		return false
	}
}
