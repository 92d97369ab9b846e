//go:build unit

package commands_test

import (
	"testing"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/domain/payment"
	"villa-reservation/internal/pkg/errs"
	"villa-reservation/internal/usecase/commands"
	"villa-reservation/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentCommandsTestSuite struct {
	commandSuite
}

func TestPaymentCommandsSuite(t *testing.T) {
	suite.Run(t, new(PaymentCommandsTestSuite))
}

func intentFor(b *booking.Booking, ref string, status payment.IntentStatus) *payment.Intent {
	return &payment.Intent{
		Ref:          ref,
		ClientSecret: ref + "_secret",
		Status:       status,
		Amount:       b.TotalAmount().Int64(),
		Currency:     "jpy",
		Metadata:     map[string]string{payment.MetaBookingID: b.ID().String()},
	}
}

func gatewayDown() error {
	return errs.Mark(errs.New("connection reset"), errs.ErrGatewayUnavailable)
}

// ================================================================================
// CreateIntent
// ================================================================================

func (s *PaymentCommandsTestSuite) TestCreateIntent() {
	s.Run("success: first intent uses generation one and booking metadata", func() {
		s.SetupTest()
		b := s.stored(nil)
		s.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, p commands.CreateIntentParams) (*payment.Intent, error) {
				s.Equal("booking-"+b.ID().String()+"-intent-1", p.IdempotencyKey)
				s.Equal(b.TotalAmount().Int64(), p.Amount)
				s.Equal("jpy", p.Currency)
				s.Equal(b.ID().String(), p.Metadata[payment.MetaBookingID])
				s.Equal(b.ConfirmationCode().String(), p.Metadata[payment.MetaConfirmationCode])
				return intentFor(b, "pi_1", payment.IntentRequiresPaymentMethod), nil
			})

		res, err := s.payments.CreateIntent(s.ctx, b.ID())
		s.Require().NoError(err)

		s.Equal("pi_1", res.IntentRef)
		s.Equal("pi_1_secret", res.ClientSecret)
		s.False(res.Reused)
		got := s.reload(b)
		s.Equal("pi_1", got.IntentRef())
		s.Equal(1, got.IntentGeneration())
	})

	s.Run("success: open intent is reused", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.IntentRef = "pi_open" })
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_open").
			Return(intentFor(b, "pi_open", payment.IntentRequiresAction), nil)

		res, err := s.payments.CreateIntent(s.ctx, b.ID())
		s.Require().NoError(err)
		s.True(res.Reused)
		s.Equal("pi_open", res.IntentRef)
		s.Equal(1, s.reload(b).IntentGeneration())
	})

	s.Run("success: canceled intent is replaced under the next key", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.IntentRef = "pi_dead" })
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_dead").
			Return(intentFor(b, "pi_dead", payment.IntentCanceled), nil)
		s.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, p commands.CreateIntentParams) (*payment.Intent, error) {
				s.Equal("booking-"+b.ID().String()+"-intent-2", p.IdempotencyKey)
				return intentFor(b, "pi_2", payment.IntentRequiresPaymentMethod), nil
			})

		res, err := s.payments.CreateIntent(s.ctx, b.ID())
		s.Require().NoError(err)
		s.Equal("pi_2", res.IntentRef)
		got := s.reload(b)
		s.Equal("pi_2", got.IntentRef())
		s.Equal(2, got.IntentGeneration())
	})

	s.Run("error: succeeded intent settles the booking and reports already paid", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.IntentRef = "pi_paid" })
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_paid").
			Return(intentFor(b, "pi_paid", payment.IntentSucceeded), nil)

		_, err := s.payments.CreateIntent(s.ctx, b.ID())
		s.True(errs.Is(err, errs.ErrAlreadyPaid))
		s.Equal(booking.StatusCompleted, s.reload(b).Status())
		s.Contains(s.uow.EventKinds(), booking.KindPaymentCompleted)
	})

	s.Run("error: completed booking", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.Status = booking.StatusCompleted; bb.IntentRef = "pi_paid" })

		_, err := s.payments.CreateIntent(s.ctx, b.ID())
		s.True(errs.Is(err, errs.ErrAlreadyPaid))
	})

	s.Run("error: cancelled booking", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.Status = booking.StatusCancelled })

		_, err := s.payments.CreateIntent(s.ctx, b.ID())
		s.True(errs.Is(err, errs.ErrAlreadyTerminal))
	})

	s.Run("success: transient gateway errors are retried with the same key", func() {
		s.SetupTest()
		b := s.stored(nil)
		var keys []string
		s.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, p commands.CreateIntentParams) (*payment.Intent, error) {
				keys = append(keys, p.IdempotencyKey)
				if len(keys) < 3 {
					return nil, gatewayDown()
				}
				return intentFor(b, "pi_1", payment.IntentRequiresPaymentMethod), nil
			}).Times(3)

		_, err := s.payments.CreateIntent(s.ctx, b.ID())
		s.Require().NoError(err)
		s.Len(keys, 3)
		s.Equal(keys[0], keys[2])
	})

	s.Run("error: gateway stays down", func() {
		s.SetupTest()
		b := s.stored(nil)
		s.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(nil, gatewayDown()).Times(3)

		_, err := s.payments.CreateIntent(s.ctx, b.ID())
		s.Equal(errs.KindGatewayUnavailable, errs.KindOf(err))
		s.Empty(s.reload(b).IntentRef())
	})

	s.Run("error: rejected request is not retried", func() {
		s.SetupTest()
		b := s.stored(nil)
		s.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errs.New("amount too small"), errs.ErrInvalidArgument)).Times(1)

		_, err := s.payments.CreateIntent(s.ctx, b.ID())
		s.Error(err)
	})

	s.Run("error: unknown booking", func() {
		s.SetupTest()
		_, err := s.payments.CreateIntent(s.ctx, uuid.New())
		s.True(errs.Is(err, errs.ErrNotFound))
	})
}

// ================================================================================
// Confirm
// ================================================================================

func (s *PaymentCommandsTestSuite) TestConfirm() {
	s.Run("success: verified intent completes the booking", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.IntentRef = "pi_1" })
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").
			Return(intentFor(b, "pi_1", payment.IntentSucceeded), nil)

		res, err := s.payments.Confirm(s.ctx, b.ID(), "pi_1")
		s.Require().NoError(err)

		s.True(res.Applied)
		s.Equal("completed", res.Booking.Status)
		s.NotNil(res.Booking.PaidAt)
		s.Equal([]booking.EventKind{booking.KindPaymentCompleted}, s.uow.EventKinds())
	})

	s.Run("success: repeated confirm is a no-op", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.IntentRef = "pi_1" })
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").
			Return(intentFor(b, "pi_1", payment.IntentSucceeded), nil).Times(1)

		_, err := s.payments.Confirm(s.ctx, b.ID(), "pi_1")
		s.Require().NoError(err)
		res, err := s.payments.Confirm(s.ctx, b.ID(), "pi_1")
		s.Require().NoError(err)

		s.False(res.Applied)
		s.Equal("completed", res.Booking.Status)
		s.Len(s.uow.Events(), 1)
	})

	s.Run("error: intent not yet succeeded", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.IntentRef = "pi_1" })
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").
			Return(intentFor(b, "pi_1", payment.IntentProcessing), nil)

		_, err := s.payments.Confirm(s.ctx, b.ID(), "pi_1")
		s.True(errs.Is(err, errs.ErrPaymentNotComplete))
		s.Equal(booking.StatusPending, s.reload(b).Status())
	})

	s.Run("error: ref differs from the stored intent", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.IntentRef = "pi_1" })

		_, err := s.payments.Confirm(s.ctx, b.ID(), "pi_other")
		s.Equal(errs.KindInvalidArgument, errs.KindOf(err))
	})

	s.Run("error: intent metadata names another booking", func() {
		s.SetupTest()
		b := s.stored(nil)
		other := intentFor(b, "pi_x", payment.IntentSucceeded)
		other.Metadata[payment.MetaBookingID] = uuid.NewString()
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_x").Return(other, nil)

		_, err := s.payments.Confirm(s.ctx, b.ID(), "pi_x")
		s.Equal(errs.KindInvalidArgument, errs.KindOf(err))
		s.Equal(booking.StatusPending, s.reload(b).Status())
	})

	s.Run("error: empty ref", func() {
		s.SetupTest()
		b := s.stored(nil)

		_, err := s.payments.Confirm(s.ctx, b.ID(), "")
		s.Equal(errs.KindInvalidArgument, errs.KindOf(err))
	})

	s.Run("error: intent amount differs from the booking total", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.IntentRef = "pi_1" })
		cheap := intentFor(b, "pi_1", payment.IntentSucceeded)
		cheap.Amount = 100
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").Return(cheap, nil)

		_, err := s.payments.Confirm(s.ctx, b.ID(), "pi_1")
		s.Equal(errs.KindInvalidArgument, errs.KindOf(err))
		s.Equal(booking.StatusPending, s.reload(b).Status())
	})

	s.Run("error: intent currency differs", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.IntentRef = "pi_1" })
		usd := intentFor(b, "pi_1", payment.IntentSucceeded)
		usd.Currency = "usd"
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").Return(usd, nil)

		_, err := s.payments.Confirm(s.ctx, b.ID(), "pi_1")
		s.Equal(errs.KindInvalidArgument, errs.KindOf(err))
		s.Equal(booking.StatusPending, s.reload(b).Status())
	})

	s.Run("success: currency compares case-insensitively", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.IntentRef = "pi_1" })
		upper := intentFor(b, "pi_1", payment.IntentSucceeded)
		upper.Currency = "JPY"
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").Return(upper, nil)

		res, err := s.payments.Confirm(s.ctx, b.ID(), "pi_1")
		s.Require().NoError(err)
		s.True(res.Applied)
	})

	s.Run("error: client ref without booking metadata when none is stored", func() {
		s.SetupTest()
		b := s.stored(nil)
		anon := intentFor(b, "pi_x", payment.IntentSucceeded)
		anon.Metadata = nil
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_x").Return(anon, nil)

		_, err := s.payments.Confirm(s.ctx, b.ID(), "pi_x")
		s.Equal(errs.KindInvalidArgument, errs.KindOf(err))
		got := s.reload(b)
		s.Equal(booking.StatusPending, got.Status())
		s.Empty(got.IntentRef())
	})

	s.Run("success: client ref with matching metadata when none is stored", func() {
		s.SetupTest()
		b := s.stored(nil)
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_x").
			Return(intentFor(b, "pi_x", payment.IntentSucceeded), nil)

		_, err := s.payments.Confirm(s.ctx, b.ID(), "pi_x")
		s.Require().NoError(err)
		s.Equal("pi_x", s.reload(b).IntentRef())
	})

	s.Run("error: cancelled booking with an uncaptured intent", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.Status = booking.StatusCancelled; bb.IntentRef = "pi_1" })
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").
			Return(intentFor(b, "pi_1", payment.IntentCanceled), nil)

		_, err := s.payments.Confirm(s.ctx, b.ID(), "pi_1")
		s.True(errs.Is(err, errs.ErrAlreadyTerminal))
		s.Nil(s.reload(b).RefundAmount())
	})

	s.Run("error: capture on a cancelled booking is refunded before reporting terminal", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.Status = booking.StatusCancelled; bb.IntentRef = "pi_1" })
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").
			Return(intentFor(b, "pi_1", payment.IntentSucceeded), nil)
		s.gateway.EXPECT().Refund(gomock.Any(), commands.RefundParams{
			IntentRef:      "pi_1",
			Amount:         b.TotalAmount().Int64(),
			IdempotencyKey: b.RefundKey(),
			Reason:         "requested_by_customer",
		}).Return(&payment.Refund{Ref: "re_1", IntentRef: "pi_1", Amount: b.TotalAmount().Int64()}, nil)

		_, err := s.payments.Confirm(s.ctx, b.ID(), "pi_1")
		s.True(errs.Is(err, errs.ErrAlreadyTerminal))
		got := s.reload(b)
		s.Equal(booking.StatusCancelled, got.Status())
		s.Equal(b.TotalAmount(), *got.RefundAmount())
	})

	s.Run("error: refunded booking is not re-read from the gateway", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.Status = booking.StatusRefunded; bb.IntentRef = "pi_1" })

		_, err := s.payments.Confirm(s.ctx, b.ID(), "pi_1")
		s.True(errs.Is(err, errs.ErrAlreadyTerminal))
	})
}

// ================================================================================
// HandleWebhook
// ================================================================================

func (s *PaymentCommandsTestSuite) TestHandleWebhook() {
	s.Run("success: payment succeeded completes the booking", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.IntentRef = "pi_1" })

		out, err := s.payments.HandleWebhook(s.ctx, payment.PaymentSucceeded{ID: "evt_1", BookingID: b.ID(), IntentRef: "pi_1"})
		s.Require().NoError(err)

		s.Equal(commands.WebhookApplied, out)
		s.Equal(booking.StatusCompleted, s.reload(b).Status())
		s.True(s.uow.WebhookSeen("evt_1"))
	})

	s.Run("success: redelivered event is acknowledged once", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.IntentRef = "pi_1" })
		ev := payment.PaymentSucceeded{ID: "evt_1", BookingID: b.ID(), IntentRef: "pi_1"}

		_, err := s.payments.HandleWebhook(s.ctx, ev)
		s.Require().NoError(err)
		out, err := s.payments.HandleWebhook(s.ctx, ev)
		s.Require().NoError(err)

		s.Equal(commands.WebhookDuplicate, out)
		s.Len(s.uow.Events(), 1)
	})

	s.Run("success: payment failed marks the booking failed", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.IntentRef = "pi_1" })

		out, err := s.payments.HandleWebhook(s.ctx, payment.PaymentFailed{ID: "evt_2", BookingID: b.ID(), IntentRef: "pi_1", Reason: "card_declined"})
		s.Require().NoError(err)

		s.Equal(commands.WebhookApplied, out)
		s.Equal(booking.StatusFailed, s.reload(b).Status())
		s.Equal([]booking.EventKind{booking.KindPaymentFailed}, s.uow.EventKinds())
	})

	s.Run("success: failure after completion is ignored", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.Status = booking.StatusCompleted; bb.IntentRef = "pi_1" })

		out, err := s.payments.HandleWebhook(s.ctx, payment.PaymentFailed{ID: "evt_3", BookingID: b.ID(), IntentRef: "pi_1"})
		s.Require().NoError(err)
		s.Equal(commands.WebhookIgnored, out)
		s.Equal(booking.StatusCompleted, s.reload(b).Status())
	})

	s.Run("success: capture on a cancelled booking is refunded in full", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.Status = booking.StatusCancelled; bb.IntentRef = "pi_1" })
		s.gateway.EXPECT().Refund(gomock.Any(), commands.RefundParams{
			IntentRef:      "pi_1",
			Amount:         b.TotalAmount().Int64(),
			IdempotencyKey: b.RefundKey(),
			Reason:         "requested_by_customer",
		}).Return(&payment.Refund{Ref: "re_1", IntentRef: "pi_1", Amount: b.TotalAmount().Int64()}, nil).Times(1)

		ev := payment.PaymentSucceeded{ID: "evt_4", BookingID: b.ID(), IntentRef: "pi_1"}
		out, err := s.payments.HandleWebhook(s.ctx, ev)
		s.Require().NoError(err)
		s.Equal(commands.WebhookApplied, out)
		got := s.reload(b)
		s.Equal(booking.StatusCancelled, got.Status())
		s.Equal(b.TotalAmount(), *got.RefundAmount())

		// A second event for the same capture does not refund twice.
		out, err = s.payments.HandleWebhook(s.ctx, payment.PaymentSucceeded{ID: "evt_4b", BookingID: b.ID(), IntentRef: "pi_1"})
		s.Require().NoError(err)
		s.Equal(commands.WebhookIgnored, out)
	})

	s.Run("success: capture on a failed booking is refunded in full", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.Status = booking.StatusFailed; bb.IntentRef = "pi_1" })
		s.gateway.EXPECT().Refund(gomock.Any(), gomock.Any()).
			Return(&payment.Refund{Ref: "re_1", IntentRef: "pi_1", Amount: b.TotalAmount().Int64()}, nil)

		out, err := s.payments.HandleWebhook(s.ctx, payment.PaymentSucceeded{ID: "evt_4", BookingID: b.ID(), IntentRef: "pi_1"})
		s.Require().NoError(err)
		s.Equal(commands.WebhookApplied, out)
		s.Equal(b.TotalAmount(), *s.reload(b).RefundAmount())
	})

	s.Run("error: late capture refund failure leaves the event for redelivery", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.Status = booking.StatusCancelled; bb.IntentRef = "pi_1" })
		s.gateway.EXPECT().Refund(gomock.Any(), gomock.Any()).Return(nil, gatewayDown()).Times(3)

		_, err := s.payments.HandleWebhook(s.ctx, payment.PaymentSucceeded{ID: "evt_4", BookingID: b.ID(), IntentRef: "pi_1"})
		s.Equal(errs.KindGatewayUnavailable, errs.KindOf(err))
		s.False(s.uow.WebhookSeen("evt_4"))
		s.Nil(s.reload(b).RefundAmount())
	})

	s.Run("success: superseded intent is ignored", func() {
		s.SetupTest()
		b := s.stored(func(bb *builder.BookingBuilder) { bb.IntentRef = "pi_2" })

		out, err := s.payments.HandleWebhook(s.ctx, payment.PaymentSucceeded{ID: "evt_5", BookingID: b.ID(), IntentRef: "pi_1"})
		s.Require().NoError(err)
		s.Equal(commands.WebhookIgnored, out)
		s.Equal(booking.StatusPending, s.reload(b).Status())
	})

	s.Run("success: unknown booking is acknowledged", func() {
		s.SetupTest()
		out, err := s.payments.HandleWebhook(s.ctx, payment.PaymentSucceeded{ID: "evt_6", BookingID: uuid.New(), IntentRef: "pi_1"})
		s.Require().NoError(err)
		s.Equal(commands.WebhookIgnored, out)
		s.True(s.uow.WebhookSeen("evt_6"))
	})

	s.Run("success: unrelated event types are ignored", func() {
		s.SetupTest()
		out, err := s.payments.HandleWebhook(s.ctx, payment.UnknownEvent{ID: "evt_7", Type: "charge.updated"})
		s.Require().NoError(err)
		s.Equal(commands.WebhookIgnored, out)
	})

	s.Run("error: missing event", func() {
		s.SetupTest()
		_, err := s.payments.HandleWebhook(s.ctx, nil)
		s.Equal(errs.KindInvalidArgument, errs.KindOf(err))

		_, err = s.payments.HandleWebhook(s.ctx, payment.PaymentSucceeded{BookingID: uuid.New()})
		s.Equal(errs.KindInvalidArgument, errs.KindOf(err))
	})
}

// ================================================================================
// ReleaseIntent
// ================================================================================

func (s *PaymentCommandsTestSuite) TestReleaseIntent() {
	s.Run("success: settled intent is returned without a cancel", func() {
		s.SetupTest()
		b := s.stored(nil)
		s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").
			Return(intentFor(b, "pi_1", payment.IntentSucceeded), nil)

		in, err := s.payments.ReleaseIntent(s.ctx, "pi_1", "release-x")
		s.Require().NoError(err)
		s.Equal(payment.IntentSucceeded, in.Status)
	})

	s.Run("success: cancel timeout is resolved by reading the intent again", func() {
		s.SetupTest()
		b := s.stored(nil)
		gomock.InOrder(
			s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").
				Return(intentFor(b, "pi_1", payment.IntentRequiresPaymentMethod), nil),
			s.gateway.EXPECT().CancelIntent(gomock.Any(), "pi_1", "release-x").Return(nil, gatewayDown()).Times(3),
			s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").
				Return(intentFor(b, "pi_1", payment.IntentCanceled), nil),
		)

		in, err := s.payments.ReleaseIntent(s.ctx, "pi_1", "release-x")
		s.Require().NoError(err)
		s.Equal(payment.IntentCanceled, in.Status)
	})

	s.Run("error: intent still open after a failed cancel", func() {
		s.SetupTest()
		b := s.stored(nil)
		gomock.InOrder(
			s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").
				Return(intentFor(b, "pi_1", payment.IntentRequiresPaymentMethod), nil),
			s.gateway.EXPECT().CancelIntent(gomock.Any(), "pi_1", "release-x").Return(nil, gatewayDown()).Times(3),
			s.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").
				Return(intentFor(b, "pi_1", payment.IntentRequiresPaymentMethod), nil),
		)

		_, err := s.payments.ReleaseIntent(s.ctx, "pi_1", "release-x")
		s.Equal(errs.KindGatewayUnavailable, errs.KindOf(err))
	})
}

// ================================================================================
// Refund
// ================================================================================

func (s *PaymentCommandsTestSuite) TestRefund() {
	s.Run("error: requires an intent and a positive amount", func() {
		s.SetupTest()
		_, err := s.payments.Refund(s.ctx, "", 1000, "refund-x")
		s.Equal(errs.KindInvalidArgument, errs.KindOf(err))

		_, err = s.payments.Refund(s.ctx, "pi_1", 0, "refund-x")
		s.Equal(errs.KindInvalidArgument, errs.KindOf(err))
	})

	s.Run("success: forwards the idempotency key", func() {
		s.SetupTest()
		s.gateway.EXPECT().Refund(gomock.Any(), commands.RefundParams{
			IntentRef: "pi_1", Amount: 5000, IdempotencyKey: "refund-x", Reason: "requested_by_customer",
		}).Return(&payment.Refund{Ref: "re_1", IntentRef: "pi_1", Amount: 5000, Status: "succeeded"}, nil)

		r, err := s.payments.Refund(s.ctx, "pi_1", 5000, "refund-x")
		s.Require().NoError(err)
		s.Equal("re_1", r.Ref)
	})
}
