package uow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/infra/repository"
	"villa-reservation/internal/pkg/errs"
	"villa-reservation/internal/usecase/shared"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool     *pgxpool.Pool
	currency string
}

func NewPostgresUoW(pool *pgxpool.Pool, currency string) *PostgresUoW {
	return &PostgresUoW{
		pool:     pool,
		currency: currency,
	}
}

// Within runs fn in a READ COMMITTED transaction. Per-booking writes take row locks
// themselves, so a stronger isolation level is not needed.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// WithinDB hands fn a raw transaction; the outbox dispatcher uses it for claim-and-mark.
func (u *PostgresUoW) WithinDB(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.runInTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(ctx context.Context, tx shared.Tx) error {
		return fn(ctx, tx.DB())
	})
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{
		bookings: repository.NewBookingRepository(u.pool, u.currency),
		admins:   repository.NewAdminRepository(u.pool),
	}
}

const txMaxRetries = 3

// runInTx retries the whole transaction on serialization failures and deadlocks.
// Each attempt begins and ends its own transaction, so nothing is deferred across retries.
func (u *PostgresUoW) runInTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 100 * time.Millisecond
	eb.RandomizationFactor = 0.2
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, txMaxRetries), ctx)

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		err := u.attempt(ctx, options, fn)
		if err == nil || !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt,
			"wait_ms", wait.Milliseconds(),
			"error", err.Error())
	})

	if err != nil && isRetryableError(err) {
		slog.Error("transaction failed after max retries", "attempts", attempt, "error", err.Error())
		return errs.Mark(err, errMaxRetriesExceeded)
	}
	return err
}

func (u *PostgresUoW) attempt(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	err = fn(ctx, &pgTx{dbtx: pgxTx, uow: u})
	if err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
		slog.Warn("rollback failed", "error", rollbackErr.Error())
	}
	return err
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgErrCodeSerializationFailure || pgErr.Code == pgErrCodeDeadlockDetected
}

type pgTx struct {
	dbtx pgx.Tx
	uow  *PostgresUoW

	// Lazy-initialized repositories
	bookingRepo *repository.BookingRepository
	profileRepo *repository.ProfileRepository
	outboxRepo  *repository.NotificationRepository
	webhookRepo *repository.WebhookEventRepository
	adminRepo   *repository.AdminRepository
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository(t.dbtx, t.uow.currency)
	}
	return t.bookingRepo
}

func (t *pgTx) Profiles() shared.ProfileRepository {
	if t.profileRepo == nil {
		t.profileRepo = repository.NewProfileRepository()
	}
	return t.profileRepo
}

func (t *pgTx) Outbox() shared.OutboxRepository {
	if t.outboxRepo == nil {
		t.outboxRepo = repository.NewNotificationRepository(t.dbtx)
	}
	return t.outboxRepo
}

func (t *pgTx) WebhookEvents() shared.WebhookEventRepository {
	if t.webhookRepo == nil {
		t.webhookRepo = repository.NewWebhookEventRepository()
	}
	return t.webhookRepo
}

func (t *pgTx) Admins() shared.AdminRepository {
	if t.adminRepo == nil {
		t.adminRepo = repository.NewAdminRepository(t.dbtx)
	}
	return t.adminRepo
}

type commandReads struct {
	bookings *repository.BookingRepository
	admins   *repository.AdminRepository
}

func (r *commandReads) BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.bookings.FindByID(ctx, id)
}

func (r *commandReads) AdminByEmail(ctx context.Context, email string) (*shared.AdminAccount, error) {
	return r.admins.FindByEmail(ctx, email)
}
