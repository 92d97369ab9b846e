package commands

import (
	"context"
	"log/slog"
	"time"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/domain/payment"
	"villa-reservation/internal/infra"
	"villa-reservation/internal/pkg/clock"
	"villa-reservation/internal/pkg/errs"
	"villa-reservation/internal/usecase/queries"
	"villa-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

const maxCodeAttempts = 3

// refundMode decides how much of a captured payment a cancellation returns.
type refundMode int

const (
	refundByPolicy refundMode = iota
	refundInFull
	refundNothing
)

type CreateBookingInput struct {
	CheckIn         time.Time
	CheckOut        time.Time
	Adults          int
	Children        int
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	SpecialRequests string
}

type CreateBookingResult struct {
	Booking *queries.BookingView
}

type CancelResult struct {
	Booking      *queries.BookingView
	RefundAmount int64
	RefundTier   booking.RefundTier
	Status       booking.Status
}

type UpdateStatusInput struct {
	Status  string
	Notes   *string
	ActorID uuid.UUID
}

type BookingCommands interface {
	Create(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error)
	Cancel(ctx context.Context, id uuid.UUID, requesterEmail string) (*CancelResult, error)
	CancelAsAdmin(ctx context.Context, id uuid.UUID, notes *string) (*CancelResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, in UpdateStatusInput) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	uow          shared.UnitOfWork
	availability queries.AvailabilityQueries
	payments     PaymentCommands
	lock         BookingLock
	policies     booking.Policies
	refunds      booking.RefundPolicy
	clock        clock.Clock
	currency     string
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	availability queries.AvailabilityQueries,
	payments PaymentCommands,
	lock BookingLock,
	policies booking.Policies,
	refunds booking.RefundPolicy,
	clk clock.Clock,
	currency queries.Currency,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:          uow,
		availability: availability,
		payments:     payments,
		lock:         lock,
		policies:     policies,
		refunds:      refunds,
		clock:        clk,
		currency:     string(currency),
	}
}

func (c *bookingCommandsImpl) Create(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	now := c.clock.Now()

	b, err := c.build(in, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidArgument)
	}

	release, err := c.lock.Acquire(ctx, CreateLockKey)
	if err != nil {
		// The exclusion constraint still rejects overlaps; the lock only narrows the race.
		slog.Warn("booking lock unavailable, relying on commit-time guard", "error", err.Error())
	} else {
		defer release(context.WithoutCancel(ctx))
	}

	available, err := c.availability.IsAvailable(ctx, b.Range(), nil)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, errs.ErrUnavailable
	}

	for attempt := 1; ; attempt++ {
		err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Bookings().Create(ctx, tx.DB(), b); err != nil {
				return err
			}
			if err := tx.Profiles().UpsertForBooking(ctx, tx.DB(), b); err != nil {
				return errs.Wrap(err, "upsert guest profile")
			}
			if err := tx.Outbox().Enqueue(ctx, tx.DB(), b.PendingEvents(), now); err != nil {
				return errs.Wrap(err, "enqueue notifications")
			}
			return nil
		})
		if err == nil {
			break
		}
		if infra.IsKind(err, infra.KindDuplicateKey) && attempt < maxCodeAttempts {
			slog.Debug("confirmation code collision, regenerating", "attempt", attempt)
			if genErr := b.RegenerateCode(c.policies.Codes, now); genErr != nil {
				return nil, errs.Wrap(genErr, "regenerate confirmation code")
			}
			continue
		}
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errs.ErrUnavailable)
		}
		return nil, errs.Wrap(err, "create booking")
	}
	b.PullEvents()

	slog.Info("booking created",
		"booking_id", b.ID(),
		"confirmation_code", b.ConfirmationCode().String(),
		"check_in", b.Range().CheckIn(),
		"check_out", b.Range().CheckOut(),
		"total_amount", b.TotalAmount().Int64())

	return &CreateBookingResult{Booking: viewOf(b, c.currency)}, nil
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, id uuid.UUID, requesterEmail string) (*CancelResult, error) {
	if requesterEmail == "" {
		return nil, errs.Mark(errs.New("guest email is required"), errs.ErrInvalidArgument)
	}
	return c.cancel(ctx, id, func(b *booking.Booking) error {
		if !b.OwnedBy(requesterEmail) {
			return errs.ErrForbidden
		}
		return nil
	}, refundByPolicy, nil)
}

func (c *bookingCommandsImpl) CancelAsAdmin(ctx context.Context, id uuid.UUID, notes *string) (*CancelResult, error) {
	return c.cancel(ctx, id, nil, refundByPolicy, notes)
}

func (c *bookingCommandsImpl) UpdateStatus(ctx context.Context, id uuid.UUID, in UpdateStatusInput) (*queries.BookingView, error) {
	target, err := booking.ParseStatus(in.Status)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidArgument)
	}

	slog.Info("admin status override", "booking_id", id, "target", target, "actor_id", in.ActorID)

	switch target {
	case booking.StatusCancelled, booking.StatusRefunded:
		// The admin's target wins over the guest refund tiers.
		mode := refundNothing
		if target == booking.StatusRefunded {
			mode = refundInFull
		}
		res, err := c.cancel(ctx, id, nil, mode, in.Notes)
		if err != nil {
			return nil, err
		}
		return res.Booking, nil

	case booking.StatusFailed:
		var view *queries.BookingView
		err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			b, err := lockBooking(ctx, tx, id)
			if err != nil {
				return err
			}
			now := c.clock.Now()
			if b.Status() != booking.StatusPending {
				if b.Status().IsTerminal() {
					return errs.Mark(booking.ErrTerminal, errs.ErrAlreadyTerminal)
				}
				return errs.Mark(errs.Newf("cannot mark a %s booking as failed", b.Status()), errs.ErrInvalidArgument)
			}
			captured, err := c.releaseIntent(ctx, b, now)
			if err != nil {
				return err
			}
			if captured {
				return errs.Mark(errs.New("payment was captured; the booking is paid"), errs.ErrInvalidArgument)
			}
			if _, err := b.MarkFailed(now); err != nil {
				return markLifecycleErr(err)
			}
			if in.Notes != nil {
				b.SetAdminNotes(*in.Notes, now)
			}
			if err := persistBooking(ctx, tx, b, now); err != nil {
				return err
			}
			view = viewOf(b, c.currency)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return view, nil

	case booking.StatusCompleted:
		current, err := c.uow.CommandReads().BookingByID(ctx, id)
		if err != nil {
			return nil, mapBookingLookup(err)
		}
		if current.IntentRef() == "" {
			return nil, errs.Mark(errs.New("booking has no payment intent to verify"), errs.ErrPaymentNotComplete)
		}
		res, err := c.payments.Confirm(ctx, id, current.IntentRef())
		if err != nil {
			return nil, err
		}
		if in.Notes == nil {
			return res.Booking, nil
		}
		return c.setNotes(ctx, id, *in.Notes)

	default:
		return nil, errs.Mark(errs.Newf("status %s cannot be set directly", target), errs.ErrInvalidArgument)
	}
}

func (c *bookingCommandsImpl) cancel(ctx context.Context, id uuid.UUID, authorize func(*booking.Booking) error, mode refundMode, notes *string) (*CancelResult, error) {
	var result *CancelResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if authorize != nil {
			if err := authorize(b); err != nil {
				return err
			}
		}
		if b.Status().IsTerminal() {
			return errs.Mark(booking.ErrTerminal, errs.ErrAlreadyTerminal)
		}

		if mode == refundInFull && (b.Status() != booking.StatusCompleted || b.IntentRef() == "") {
			return errs.Mark(errs.Newf("a %s booking has no payment to refund", b.Status()), errs.ErrInvalidArgument)
		}

		now := c.clock.Now()
		captured, err := c.releaseIntent(ctx, b, now)
		if err != nil {
			return err
		}
		if captured && mode == refundNothing {
			// The admin cancelled what looked like an unpaid booking.
			mode = refundInFull
		}

		tier := booking.RefundNone
		refund := booking.Money(0)
		switch {
		case mode == refundInFull:
			tier = booking.RefundFull
			refund = b.TotalAmount()
		case mode == refundNothing:
			if b.Status() == booking.StatusCompleted {
				slog.Warn("paid booking cancelled without refund", "booking_id", b.ID(), "amount", b.TotalAmount().Int64())
			}
		case b.Status() == booking.StatusCompleted:
			tier = c.refunds.Tier(b.Range().CheckIn(), now)
			refund = c.refunds.Refund(b.TotalAmount(), b.Range().CheckIn(), now)
		}

		if refund.IsPositive() && b.IntentRef() != "" {
			// The transaction rolls back if the gateway refuses, leaving the booking untouched.
			if _, err := c.payments.Refund(ctx, b.IntentRef(), refund, b.RefundKey()); err != nil {
				return err
			}
		}

		status, err := b.Cancel(refund, now)
		if err != nil {
			return markLifecycleErr(err)
		}
		if notes != nil {
			b.SetAdminNotes(*notes, now)
		}
		if err := persistBooking(ctx, tx, b, now); err != nil {
			return err
		}

		result = &CancelResult{
			Booking:      viewOf(b, c.currency),
			RefundAmount: refund.Int64(),
			RefundTier:   tier,
			Status:       status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("booking cancelled", "booking_id", id, "status", result.Status, "refund_amount", result.RefundAmount)
	return result, nil
}

// releaseIntent voids the open intent of a pending booking so nothing is captured after
// the cancel. An intent that already captured settles the booking as paid and reports
// captured=true.
func (c *bookingCommandsImpl) releaseIntent(ctx context.Context, b *booking.Booking, now time.Time) (captured bool, err error) {
	if b.Status() != booking.StatusPending || b.IntentRef() == "" {
		return false, nil
	}
	in, err := c.payments.ReleaseIntent(ctx, b.IntentRef(), b.ReleaseKey())
	if err != nil {
		return false, err
	}
	if in == nil || in.Status != payment.IntentSucceeded {
		return false, nil
	}
	if _, err := b.MarkCompleted(b.IntentRef(), now); err != nil {
		return false, markLifecycleErr(err)
	}
	slog.Info("intent captured before cancellation", "booking_id", b.ID(), "intent_ref", b.IntentRef())
	return true, nil
}

func (c *bookingCommandsImpl) setNotes(ctx context.Context, id uuid.UUID, notes string) (*queries.BookingView, error) {
	var view *queries.BookingView
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		b.SetAdminNotes(notes, c.clock.Now())
		if err := tx.Bookings().Update(ctx, tx.DB(), b); err != nil {
			return errs.Wrap(err, "update admin notes")
		}
		view = viewOf(b, c.currency)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (c *bookingCommandsImpl) build(in CreateBookingInput, now time.Time) (*booking.Booking, error) {
	r, err := booking.NewDateRange(in.CheckIn, in.CheckOut)
	if err != nil {
		return nil, err
	}
	guest, err := booking.NewGuestContact(in.GuestName, in.GuestEmail, in.GuestPhone)
	if err != nil {
		return nil, err
	}
	return booking.New(c.policies, booking.NewBookingInput{
		Range:           r,
		Adults:          in.Adults,
		Children:        in.Children,
		Guest:           guest,
		SpecialRequests: in.SpecialRequests,
	}, now)
}

func persistBooking(ctx context.Context, tx shared.Tx, b *booking.Booking, now time.Time) error {
	if err := tx.Bookings().Update(ctx, tx.DB(), b); err != nil {
		return errs.Wrap(err, "update booking")
	}
	if err := tx.Outbox().Enqueue(ctx, tx.DB(), b.PendingEvents(), now); err != nil {
		return errs.Wrap(err, "enqueue notifications")
	}
	return nil
}

func lockBooking(ctx context.Context, tx shared.Tx, id uuid.UUID) (*booking.Booking, error) {
	b, err := tx.Bookings().LockByID(ctx, tx.DB(), id)
	if err != nil {
		return nil, mapBookingLookup(err)
	}
	return b, nil
}

func mapBookingLookup(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, errs.ErrNotFound)
	}
	return errs.Wrap(err, "load booking")
}

func markLifecycleErr(err error) error {
	switch {
	case errs.Is(err, booking.ErrTerminal):
		return errs.Mark(err, errs.ErrAlreadyTerminal)
	case errs.Is(err, booking.ErrInvalidTransition), errs.Is(err, booking.ErrIntentMismatch):
		return errs.Mark(err, errs.ErrInvalidArgument)
	default:
		return errs.Mark(err, errs.ErrInternal)
	}
}
