package booking

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCheckInNotInFuture = errors.New("check-in must be in the future")
	ErrInvalidGuestCount  = errors.New("at least one adult is required and children cannot be negative")
	ErrTooManyGuests      = errors.New("guest count exceeds the property's capacity")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrTerminal           = errors.New("booking is in a terminal state")
	ErrIntentAlreadySet   = errors.New("booking already has an open payment intent")
	ErrIntentMismatch     = errors.New("payment intent does not belong to this booking")
)

type Policies struct {
	Pricing   PricingPolicy
	Codes     CodeGenerator
	MaxGuests int
}

type NewBookingInput struct {
	Range           DateRange
	Adults          int
	Children        int
	Guest           GuestContact
	SpecialRequests string
}

type Booking struct {
	id               uuid.UUID
	dates            DateRange
	adults           int
	children         int
	guest            GuestContact
	specialRequests  string
	totalAmount      Money
	status           Status
	intentRef        string
	intentGeneration int
	confirmationCode ConfirmationCode
	refundAmount     *Money
	adminNotes       string
	paidAt           *time.Time
	cancelledAt      *time.Time
	createdAt        time.Time
	updatedAt        time.Time

	events []Event
}

// New validates the request and prices it. The returned booking is pending and carries
// a BookingCreated event.
func New(p Policies, in NewBookingInput, now time.Time) (*Booking, error) {
	if in.Range.IsZero() {
		return nil, ErrInvalidDateRange
	}
	if !in.Range.CheckIn().After(now) {
		return nil, ErrCheckInNotInFuture
	}
	if in.Adults < 1 || in.Children < 0 {
		return nil, ErrInvalidGuestCount
	}
	if p.MaxGuests > 0 && in.Adults+in.Children > p.MaxGuests {
		return nil, ErrTooManyGuests
	}
	if in.Guest.Email().Value() == "" {
		return nil, ErrInvalidGuestContact
	}

	code, err := p.Codes.Generate(now)
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}

	b := &Booking{
		id:               uuid.New(),
		dates:            in.Range,
		adults:           in.Adults,
		children:         in.Children,
		guest:            in.Guest,
		specialRequests:  strings.TrimSpace(in.SpecialRequests),
		totalAmount:      p.Pricing.Total(in.Range),
		status:           StatusPending,
		confirmationCode: code,
		createdAt:        now,
		updatedAt:        now,
	}
	b.record(KindBookingCreated, now)
	return b, nil
}

type Snapshot struct {
	ID               uuid.UUID
	Range            DateRange
	Adults           int
	Children         int
	Guest            GuestContact
	SpecialRequests  string
	TotalAmount      Money
	Status           Status
	IntentRef        string
	IntentGeneration int
	ConfirmationCode ConfirmationCode
	RefundAmount     *Money
	AdminNotes       string
	PaidAt           *time.Time
	CancelledAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func Reconstruct(s Snapshot) *Booking {
	return &Booking{
		id:               s.ID,
		dates:            s.Range,
		adults:           s.Adults,
		children:         s.Children,
		guest:            s.Guest,
		specialRequests:  s.SpecialRequests,
		totalAmount:      s.TotalAmount,
		status:           s.Status,
		intentRef:        s.IntentRef,
		intentGeneration: s.IntentGeneration,
		confirmationCode: s.ConfirmationCode,
		refundAmount:     s.RefundAmount,
		adminNotes:       s.AdminNotes,
		paidAt:           s.PaidAt,
		cancelledAt:      s.CancelledAt,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
	}
}

func (b *Booking) ID() uuid.UUID                      { return b.id }
func (b *Booking) Range() DateRange                   { return b.dates }
func (b *Booking) Adults() int                        { return b.adults }
func (b *Booking) Children() int                      { return b.children }
func (b *Booking) Guest() GuestContact                { return b.guest }
func (b *Booking) SpecialRequests() string            { return b.specialRequests }
func (b *Booking) TotalAmount() Money                 { return b.totalAmount }
func (b *Booking) Status() Status                     { return b.status }
func (b *Booking) IntentRef() string                  { return b.intentRef }
func (b *Booking) IntentGeneration() int              { return b.intentGeneration }
func (b *Booking) ConfirmationCode() ConfirmationCode { return b.confirmationCode }
func (b *Booking) RefundAmount() *Money               { return b.refundAmount }
func (b *Booking) AdminNotes() string                 { return b.adminNotes }
func (b *Booking) PaidAt() *time.Time                 { return b.paidAt }
func (b *Booking) CancelledAt() *time.Time            { return b.cancelledAt }
func (b *Booking) CreatedAt() time.Time               { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time               { return b.updatedAt }

func (b *Booking) Snapshot() Snapshot {
	return Snapshot{
		ID:               b.id,
		Range:            b.dates,
		Adults:           b.adults,
		Children:         b.children,
		Guest:            b.guest,
		SpecialRequests:  b.specialRequests,
		TotalAmount:      b.totalAmount,
		Status:           b.status,
		IntentRef:        b.intentRef,
		IntentGeneration: b.intentGeneration,
		ConfirmationCode: b.confirmationCode,
		RefundAmount:     b.refundAmount,
		AdminNotes:       b.adminNotes,
		PaidAt:           b.paidAt,
		CancelledAt:      b.cancelledAt,
		CreatedAt:        b.createdAt,
		UpdatedAt:        b.updatedAt,
	}
}

// RegenerateCode replaces the confirmation code of a booking that has not been stored yet.
func (b *Booking) RegenerateCode(g CodeGenerator, now time.Time) error {
	code, err := g.Generate(now)
	if err != nil {
		return err
	}
	b.confirmationCode = code
	for i := range b.events {
		b.events[i].ConfirmationCode = code.String()
	}
	return nil
}

// AttachIntent stores a new gateway intent. Replacing an existing ref is only allowed
// when the caller has established the previous intent is dead.
func (b *Booking) AttachIntent(ref string, previousDead bool, now time.Time) error {
	if b.status != StatusPending {
		return b.transitionError(StatusPending)
	}
	if b.intentRef != "" && !previousDead {
		return ErrIntentAlreadySet
	}
	b.intentRef = ref
	b.intentGeneration++
	b.updatedAt = now
	return nil
}

// NextIntentKey is the idempotency key for the next intent creation attempt.
func (b *Booking) NextIntentKey() string {
	return fmt.Sprintf("booking-%s-intent-%d", b.id, b.intentGeneration+1)
}

func (b *Booking) RefundKey() string {
	return fmt.Sprintf("refund-%s", b.id)
}

// ReleaseKey is the idempotency key for voiding the current intent.
func (b *Booking) ReleaseKey() string {
	return fmt.Sprintf("release-%s-intent-%d", b.id, b.intentGeneration)
}

// MarkCompleted returns applied=false when the booking is already completed.
func (b *Booking) MarkCompleted(intentRef string, now time.Time) (applied bool, err error) {
	if b.status == StatusCompleted {
		return false, nil
	}
	if b.intentRef != "" && intentRef != b.intentRef {
		return false, ErrIntentMismatch
	}
	if err := b.transition(StatusCompleted, now); err != nil {
		return false, err
	}
	if b.intentRef == "" {
		b.intentRef = intentRef
	}
	b.paidAt = &now
	b.record(KindPaymentCompleted, now)
	return true, nil
}

// MarkFailed returns applied=false when the booking already failed or moved on.
func (b *Booking) MarkFailed(now time.Time) (applied bool, err error) {
	if b.status != StatusPending {
		if b.status == StatusFailed || b.status == StatusCompleted {
			return false, nil
		}
		return false, b.transitionError(StatusFailed)
	}
	if err := b.transition(StatusFailed, now); err != nil {
		return false, err
	}
	b.record(KindPaymentFailed, now)
	return true, nil
}

// Cancel settles the booking with the given refund. Pending bookings never refund
// because nothing was captured.
func (b *Booking) Cancel(refund Money, now time.Time) (Status, error) {
	if b.status.IsTerminal() {
		return b.status, ErrTerminal
	}
	if b.status == StatusPending || refund < 0 {
		refund = 0
	}
	if refund > b.totalAmount {
		refund = b.totalAmount
	}
	target := StatusCancelled
	if refund.IsPositive() {
		target = StatusRefunded
	}
	if err := b.transition(target, now); err != nil {
		return b.status, err
	}
	b.refundAmount = &refund
	b.cancelledAt = &now
	b.record(KindBookingCancelled, now)
	return target, nil
}

// ReverseLateCapture records a full refund for funds captured after the booking was
// cancelled or failed. The status stays where it is. applied is false when a refund
// has already been recorded.
func (b *Booking) ReverseLateCapture(intentRef string, now time.Time) (applied bool, err error) {
	if b.status != StatusCancelled && b.status != StatusFailed {
		return false, fmt.Errorf("%w: late capture on a %s booking", ErrInvalidTransition, b.status)
	}
	if b.intentRef != "" && intentRef != b.intentRef {
		return false, ErrIntentMismatch
	}
	if b.refundAmount != nil && b.refundAmount.IsPositive() {
		return false, nil
	}
	if b.intentRef == "" {
		b.intentRef = intentRef
	}
	refund := b.totalAmount
	b.refundAmount = &refund
	b.updatedAt = now
	return true, nil
}

func (b *Booking) SetAdminNotes(notes string, now time.Time) {
	b.adminNotes = strings.TrimSpace(notes)
	b.updatedAt = now
}

func (b *Booking) OwnedBy(requesterEmail string) bool {
	return b.guest.OwnedBy(requesterEmail)
}

// PendingEvents returns the recorded events without clearing them, so a retried
// transaction can enqueue the same set again.
func (b *Booking) PendingEvents() []Event {
	return slices.Clone(b.events)
}

// PullEvents hands recorded events to the caller exactly once.
func (b *Booking) PullEvents() []Event {
	ev := b.events
	b.events = nil
	return ev
}

func (b *Booking) transition(target Status, now time.Time) error {
	if b.status.IsTerminal() {
		return ErrTerminal
	}
	if !b.status.CanTransitionTo(target) {
		return b.transitionError(target)
	}
	b.status = target
	b.updatedAt = now
	return nil
}

func (b *Booking) transitionError(target Status) error {
	if b.status.IsTerminal() {
		return ErrTerminal
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.status, target)
}

func (b *Booking) record(kind EventKind, at time.Time) {
	ev := Event{
		Kind:             kind,
		BookingID:        b.id,
		ConfirmationCode: b.confirmationCode.String(),
		GuestName:        b.guest.Name(),
		GuestEmail:       b.guest.Email().Value(),
		CheckIn:          b.dates.CheckIn(),
		CheckOut:         b.dates.CheckOut(),
		Status:           b.status,
		TotalAmount:      b.totalAmount.Int64(),
		OccurredAt:       at,
	}
	if b.refundAmount != nil {
		r := b.refundAmount.Int64()
		ev.RefundAmount = &r
	}
	b.events = append(b.events, ev)
}
