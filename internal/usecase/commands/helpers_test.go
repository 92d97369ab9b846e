//go:build unit

package commands_test

import (
	"context"
	"time"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/pkg/clock"
	"villa-reservation/internal/usecase/commands"
	"villa-reservation/tests/common/builder"
	"villa-reservation/tests/common/fakeuow"
	commandsmock "villa-reservation/tests/mock/commands"
	queriesmock "villa-reservation/tests/mock/queries"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func fastRetry() commands.RetryPolicy {
	return commands.RetryPolicy{MaxAttempts: 3, Initial: time.Millisecond, Max: 2 * time.Millisecond}
}

type commandSuite struct {
	suite.Suite
	ctx          context.Context
	ctrl         *gomock.Controller
	uow          *fakeuow.UoW
	clock        *clock.MockClock
	gateway      *commandsmock.MockPaymentGateway
	lock         *commandsmock.MockBookingLock
	availability *queriesmock.MockAvailabilityQueries

	payments commands.PaymentCommands
	bookings commands.BookingCommands
}

func (s *commandSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.uow = fakeuow.New()
	s.clock = clock.NewMockClock(fixedNow)
	s.gateway = commandsmock.NewMockPaymentGateway(s.ctrl)
	s.lock = commandsmock.NewMockBookingLock(s.ctrl)
	s.availability = queriesmock.NewMockAvailabilityQueries(s.ctrl)

	s.payments = commands.NewPaymentCommands(s.uow, s.gateway, s.clock, fastRetry(), "jpy")
	s.bookings = commands.NewBookingCommands(
		s.uow,
		s.availability,
		s.payments,
		s.lock,
		booking.Policies{
			Pricing:   booking.NewNightlyRatePricing(builder.DefaultNightlyRate),
			Codes:     booking.NewRandomCodeGenerator(),
			MaxGuests: 12,
		},
		booking.NewTieredRefundPolicy(),
		s.clock,
		"jpy",
	)
}

func (s *commandSuite) TearDownTest() {
	s.ctrl.Finish()
}

// stored puts a booking built from fixedNow into the fake store.
func (s *commandSuite) stored(mutate func(*builder.BookingBuilder)) *booking.Booking {
	b := builder.NewBookingBuilder(fixedNow)
	if mutate != nil {
		b.With(mutate)
	}
	out := b.BuildDomain()
	s.uow.Put(out)
	return out
}

func (s *commandSuite) reload(b *booking.Booking) *booking.Booking {
	got, ok := s.uow.Get(b.ID())
	s.Require().True(ok)
	return got
}
