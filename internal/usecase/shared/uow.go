package shared

import (
	"context"
	"time"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Profiles() ProfileRepository
	Outbox() OutboxRepository
	WebhookEvents() WebhookEventRepository
	Admins() AdminRepository
	DB() db.DBTX
}

type CommandReads interface {
	BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	AdminByEmail(ctx context.Context, email string) (*AdminAccount, error)
}

// AdminAccount is the write-side view of a back-office login.
type AdminAccount struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}

type BookingRepository interface {
	// Create fails with infra.KindConflict when an occupying booking overlaps at commit
	// time and with infra.KindDuplicateKey on a confirmation code collision.
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	// LockByID reads the booking with a row lock held until the transaction ends.
	LockByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	Update(ctx context.Context, tx db.DBTX, b *booking.Booking) error
}

type ProfileRepository interface {
	UpsertForBooking(ctx context.Context, tx db.DBTX, b *booking.Booking) error
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, tx db.DBTX, events []booking.Event, runAt time.Time) error
}

type WebhookEventRepository interface {
	// Record returns false when the event id was already processed.
	Record(ctx context.Context, tx db.DBTX, eventID, eventType string, at time.Time) (bool, error)
}

type AdminRepository interface {
	UpdateLastLogin(ctx context.Context, tx db.DBTX, adminID uuid.UUID, at time.Time) error
}
