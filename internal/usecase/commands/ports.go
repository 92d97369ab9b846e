package commands

import (
	"context"

	"villa-reservation/internal/domain/payment"
)

type CreateIntentParams struct {
	Amount         int64
	Currency       string
	IdempotencyKey string
	Description    string
	Metadata       map[string]string
}

type RefundParams struct {
	IntentRef      string
	Amount         int64
	IdempotencyKey string
	Reason         string
}

// PaymentGateway is the abstract capability the orchestrator drives. Implementations mark
// transport failures, timeouts and 5xx responses with errs.ErrGatewayUnavailable.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, p CreateIntentParams) (*payment.Intent, error)
	RetrieveIntent(ctx context.Context, ref string) (*payment.Intent, error)
	// CancelIntent voids an intent that has not captured funds. A gateway refusal
	// usually means the intent already settled; callers re-read it to find out.
	CancelIntent(ctx context.Context, ref, idempotencyKey string) (*payment.Intent, error)
	Refund(ctx context.Context, p RefundParams) (*payment.Refund, error)
}

// BookingLock serializes booking creation across instances. Release must be called
// even when the protected section fails.
type BookingLock interface {
	Acquire(ctx context.Context, key string) (release func(context.Context), err error)
}

const CreateLockKey = "villa:booking:create"
