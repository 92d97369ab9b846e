package commands

import (
	"context"
	"log/slog"
	"strings"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/domain/payment"
	"villa-reservation/internal/infra"
	"villa-reservation/internal/pkg/clock"
	"villa-reservation/internal/pkg/errs"
	"villa-reservation/internal/usecase/queries"
	"villa-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type IntentResult struct {
	BookingID    uuid.UUID
	IntentRef    string
	ClientSecret string
	Amount       int64
	Currency     string
	Reused       bool
}

type ConfirmResult struct {
	Booking *queries.BookingView
	// Applied is false when the booking had already been completed.
	Applied bool
}

type WebhookOutcome string

const (
	WebhookApplied   WebhookOutcome = "applied"
	WebhookDuplicate WebhookOutcome = "duplicate"
	WebhookIgnored   WebhookOutcome = "ignored"
)

type PaymentCommands interface {
	CreateIntent(ctx context.Context, bookingID uuid.UUID) (*IntentResult, error)
	Confirm(ctx context.Context, bookingID uuid.UUID, intentRef string) (*ConfirmResult, error)
	HandleWebhook(ctx context.Context, ev payment.Event) (WebhookOutcome, error)
	Refund(ctx context.Context, intentRef string, amount booking.Money, idempotencyKey string) (*payment.Refund, error)
	// ReleaseIntent voids an uncaptured intent and returns its settled state. A succeeded
	// result means the funds were captured first. A nil intent means the gateway does not
	// know the reference.
	ReleaseIntent(ctx context.Context, intentRef, idempotencyKey string) (*payment.Intent, error)
}

type paymentCommandsImpl struct {
	uow      shared.UnitOfWork
	gateway  PaymentGateway
	clock    clock.Clock
	retry    RetryPolicy
	currency string
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	gateway PaymentGateway,
	clk clock.Clock,
	retry RetryPolicy,
	currency queries.Currency,
) PaymentCommands {
	return &paymentCommandsImpl{
		uow:      uow,
		gateway:  gateway,
		clock:    clk,
		retry:    retry,
		currency: string(currency),
	}
}

func (p *paymentCommandsImpl) CreateIntent(ctx context.Context, bookingID uuid.UUID) (*IntentResult, error) {
	var (
		result      *IntentResult
		alreadyPaid bool
	)

	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result, alreadyPaid = nil, false

		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		switch {
		case b.Status() == booking.StatusCompleted:
			return errs.ErrAlreadyPaid
		case b.Status() != booking.StatusPending:
			return errs.Mark(errs.Newf("booking is %s", b.Status()), errs.ErrAlreadyTerminal)
		}

		previousDead := false
		if ref := b.IntentRef(); ref != "" {
			existing, err := withRetry(ctx, p.retry, "retrieve intent", func(ctx context.Context) (*payment.Intent, error) {
				return p.gateway.RetrieveIntent(ctx, ref)
			})
			if err != nil {
				return err
			}
			switch {
			case existing.Status == payment.IntentSucceeded:
				// The webhook has not arrived yet; settle from the verified gateway state.
				if err := p.complete(ctx, tx, b, ref); err != nil {
					return err
				}
				alreadyPaid = true
				return nil
			case existing.Status.Open():
				result = p.intentResult(b, existing, true)
				return nil
			default:
				previousDead = true
			}
		}

		created, err := withRetry(ctx, p.retry, "create intent", func(ctx context.Context) (*payment.Intent, error) {
			return p.gateway.CreateIntent(ctx, CreateIntentParams{
				Amount:         b.TotalAmount().Int64(),
				Currency:       p.currency,
				IdempotencyKey: b.NextIntentKey(),
				Description:    "Villa stay " + b.ConfirmationCode().String(),
				Metadata: map[string]string{
					payment.MetaBookingID:        b.ID().String(),
					payment.MetaConfirmationCode: b.ConfirmationCode().String(),
					payment.MetaGuestEmail:       b.Guest().Email().Value(),
					payment.MetaGuestName:        b.Guest().Name(),
				},
			})
		})
		if err != nil {
			return err
		}

		if err := b.AttachIntent(created.Ref, previousDead, p.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrInternal)
		}
		if err := tx.Bookings().Update(ctx, tx.DB(), b); err != nil {
			return errs.Wrap(err, "persist payment intent")
		}
		result = p.intentResult(b, created, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if alreadyPaid {
		return nil, errs.ErrAlreadyPaid
	}

	slog.Info("payment intent ready", "booking_id", bookingID, "intent_ref", result.IntentRef, "reused", result.Reused)
	return result, nil
}

func (p *paymentCommandsImpl) Confirm(ctx context.Context, bookingID uuid.UUID, intentRef string) (*ConfirmResult, error) {
	if intentRef == "" {
		return nil, errs.Mark(errs.New("payment intent reference is required"), errs.ErrInvalidArgument)
	}

	current, err := p.uow.CommandReads().BookingByID(ctx, bookingID)
	if err != nil {
		return nil, mapBookingLookup(err)
	}
	if current.IntentRef() != "" && current.IntentRef() != intentRef {
		return nil, errs.Mark(booking.ErrIntentMismatch, errs.ErrInvalidArgument)
	}
	switch current.Status() {
	case booking.StatusCompleted:
		return &ConfirmResult{Booking: viewOf(current, p.currency), Applied: false}, nil
	case booking.StatusRefunded:
		return nil, errs.Mark(booking.ErrTerminal, errs.ErrAlreadyTerminal)
	}

	// Network I/O happens before the row lock is taken.
	intent, err := withRetry(ctx, p.retry, "retrieve intent", func(ctx context.Context) (*payment.Intent, error) {
		return p.gateway.RetrieveIntent(ctx, intentRef)
	})
	if err != nil {
		return nil, err
	}
	if err := p.matchIntent(current, intent); err != nil {
		return nil, err
	}
	if current.Status().IsTerminal() {
		if intent.Status == payment.IntentSucceeded {
			err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
				b, err := lockBooking(ctx, tx, bookingID)
				if err != nil {
					return err
				}
				_, err = p.reverseLateCapture(ctx, tx, b, intentRef)
				return err
			})
			if err != nil {
				return nil, err
			}
		}
		return nil, errs.Mark(booking.ErrTerminal, errs.ErrAlreadyTerminal)
	}
	if intent.Status != payment.IntentSucceeded {
		return nil, errs.Mark(errs.Newf("intent status is %s", intent.Status), errs.ErrPaymentNotComplete)
	}

	var (
		view    *queries.BookingView
		applied bool
	)
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		applied = b.Status() != booking.StatusCompleted
		if err := p.complete(ctx, tx, b, intentRef); err != nil {
			return err
		}
		view = viewOf(b, p.currency)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if applied {
		slog.Info("payment confirmed", "booking_id", bookingID, "intent_ref", intentRef)
	}
	return &ConfirmResult{Booking: view, Applied: applied}, nil
}

func (p *paymentCommandsImpl) HandleWebhook(ctx context.Context, ev payment.Event) (WebhookOutcome, error) {
	if ev == nil || ev.EventID() == "" {
		return "", errs.Mark(payment.ErrMalformedEvent, errs.ErrInvalidArgument)
	}

	outcome := WebhookIgnored
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		outcome = WebhookIgnored
		now := p.clock.Now()

		fresh, err := tx.WebhookEvents().Record(ctx, tx.DB(), ev.EventID(), ev.EventType(), now)
		if err != nil {
			return errs.Wrap(err, "record webhook event")
		}
		if !fresh {
			outcome = WebhookDuplicate
			return nil
		}

		switch e := ev.(type) {
		case payment.PaymentSucceeded:
			b, ok, err := p.webhookTarget(ctx, tx, e.ID, e.BookingID, e.IntentRef)
			if err != nil || !ok {
				return err
			}
			if b.Status() == booking.StatusCancelled || b.Status() == booking.StatusFailed {
				applied, err := p.reverseLateCapture(ctx, tx, b, e.IntentRef)
				if err != nil {
					return err
				}
				if applied {
					outcome = WebhookApplied
				}
				return nil
			}
			applied, err := b.MarkCompleted(e.IntentRef, now)
			if err != nil {
				slog.Warn("payment succeeded for a booking that can no longer complete",
					"event_id", e.ID, "booking_id", b.ID(), "status", b.Status(), "intent_ref", e.IntentRef)
				return nil
			}
			if !applied {
				return nil
			}
			if err := persistBooking(ctx, tx, b, now); err != nil {
				return err
			}
			outcome = WebhookApplied
		case payment.PaymentFailed:
			b, ok, err := p.webhookTarget(ctx, tx, e.ID, e.BookingID, e.IntentRef)
			if err != nil || !ok {
				return err
			}
			applied, err := b.MarkFailed(now)
			if err != nil {
				slog.Warn("payment failure for a booking past pending", "event_id", e.ID, "booking_id", b.ID(), "status", b.Status())
				return nil
			}
			if !applied {
				return nil
			}
			if err := persistBooking(ctx, tx, b, now); err != nil {
				return err
			}
			slog.Info("payment failed", "booking_id", b.ID(), "reason", e.Reason)
			outcome = WebhookApplied
		case payment.UnknownEvent:
			slog.Debug("ignoring gateway event", "event_id", e.ID, "type", e.Type)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

func (p *paymentCommandsImpl) Refund(ctx context.Context, intentRef string, amount booking.Money, idempotencyKey string) (*payment.Refund, error) {
	if intentRef == "" || !amount.IsPositive() {
		return nil, errs.Mark(errs.New("refund requires an intent and a positive amount"), errs.ErrInvalidArgument)
	}
	refund, err := withRetry(ctx, p.retry, "refund", func(ctx context.Context) (*payment.Refund, error) {
		return p.gateway.Refund(ctx, RefundParams{
			IntentRef:      intentRef,
			Amount:         amount.Int64(),
			IdempotencyKey: idempotencyKey,
			Reason:         "requested_by_customer",
		})
	})
	if err != nil {
		return nil, err
	}
	slog.Info("refund issued", "intent_ref", intentRef, "amount", amount.Int64(), "refund_ref", refund.Ref)
	return refund, nil
}

func (p *paymentCommandsImpl) ReleaseIntent(ctx context.Context, intentRef, idempotencyKey string) (*payment.Intent, error) {
	retrieve := func(ctx context.Context) (*payment.Intent, error) {
		return p.gateway.RetrieveIntent(ctx, intentRef)
	}

	current, err := withRetry(ctx, p.retry, "retrieve intent", retrieve)
	if err != nil {
		if errs.Is(err, errs.ErrInvalidArgument) {
			slog.Warn("releasing an intent the gateway does not know", "intent_ref", intentRef)
			return nil, nil
		}
		return nil, err
	}
	if !current.Status.Open() {
		return current, nil
	}

	released, err := withRetry(ctx, p.retry, "cancel intent", func(ctx context.Context) (*payment.Intent, error) {
		return p.gateway.CancelIntent(ctx, intentRef, idempotencyKey)
	})
	if err == nil {
		slog.Info("payment intent released", "intent_ref", intentRef, "status", released.Status)
		return released, nil
	}

	// A refused or timed-out cancel leaves the outcome unknown until the intent is read again.
	after, rerr := withRetry(ctx, p.retry, "retrieve intent", retrieve)
	if rerr != nil || after.Status.Open() {
		return nil, err
	}
	return after, nil
}

// reverseLateCapture refunds in full a capture that landed on a cancelled or failed booking.
func (p *paymentCommandsImpl) reverseLateCapture(ctx context.Context, tx shared.Tx, b *booking.Booking, intentRef string) (bool, error) {
	now := p.clock.Now()
	applied, err := b.ReverseLateCapture(intentRef, now)
	if err != nil {
		return false, markLifecycleErr(err)
	}
	if !applied {
		return false, nil
	}
	if _, err := p.Refund(ctx, intentRef, b.TotalAmount(), b.RefundKey()); err != nil {
		return false, err
	}
	if err := persistBooking(ctx, tx, b, now); err != nil {
		return false, err
	}
	slog.Warn("refunded a capture on a closed booking",
		"booking_id", b.ID(), "status", b.Status(), "intent_ref", intentRef, "amount", b.TotalAmount().Int64())
	return true, nil
}

// matchIntent rejects an intent that was not issued for this booking's charge.
func (p *paymentCommandsImpl) matchIntent(b *booking.Booking, in *payment.Intent) error {
	id, ok := in.BookingID()
	switch {
	case ok && id != b.ID():
		return errs.Mark(booking.ErrIntentMismatch, errs.ErrInvalidArgument)
	case !ok && b.IntentRef() == "":
		return errs.Mark(errs.New("intent carries no booking reference"), errs.ErrInvalidArgument)
	}
	if in.Amount != b.TotalAmount().Int64() || !strings.EqualFold(in.Currency, p.currency) {
		return errs.Mark(
			errs.Newf("intent charges %d %s but the booking totals %d %s", in.Amount, in.Currency, b.TotalAmount().Int64(), p.currency),
			errs.ErrInvalidArgument)
	}
	return nil
}

// complete applies pending -> completed on a locked booking.
func (p *paymentCommandsImpl) complete(ctx context.Context, tx shared.Tx, b *booking.Booking, intentRef string) error {
	now := p.clock.Now()
	applied, err := b.MarkCompleted(intentRef, now)
	if err != nil {
		return markLifecycleErr(err)
	}
	if !applied {
		return nil
	}
	return persistBooking(ctx, tx, b, now)
}

// webhookTarget returns ok=false for events that must be acknowledged without effect.
func (p *paymentCommandsImpl) webhookTarget(ctx context.Context, tx shared.Tx, eventID string, bookingID uuid.UUID, intentRef string) (*booking.Booking, bool, error) {
	b, err := tx.Bookings().LockByID(ctx, tx.DB(), bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			slog.Warn("webhook for unknown booking", "event_id", eventID, "booking_id", bookingID)
			return nil, false, nil
		}
		return nil, false, errs.Wrap(err, "lock booking")
	}
	if b.IntentRef() != "" && b.IntentRef() != intentRef {
		slog.Warn("webhook for a superseded intent", "event_id", eventID, "booking_id", bookingID,
			"intent_ref", intentRef, "current_intent_ref", b.IntentRef())
		return nil, false, nil
	}
	return b, true, nil
}

func (p *paymentCommandsImpl) intentResult(b *booking.Booking, in *payment.Intent, reused bool) *IntentResult {
	currency := in.Currency
	if currency == "" {
		currency = p.currency
	}
	return &IntentResult{
		BookingID:    b.ID(),
		IntentRef:    in.Ref,
		ClientSecret: in.ClientSecret,
		Amount:       b.TotalAmount().Int64(),
		Currency:     currency,
		Reused:       reused,
	}
}
