package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/infra/messaging"
	"villa-reservation/internal/infra/repository"
	"villa-reservation/internal/pkg/clock"
	"villa-reservation/internal/pkg/config"

	"github.com/google/uuid"
)

type TxRunner interface {
	WithinDB(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error
}

type JobStore interface {
	ClaimDue(ctx context.Context, tx db.DBTX, now time.Time, limit int) ([]repository.NotificationJob, error)
	MarkSent(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) error
	Reschedule(ctx context.Context, tx db.DBTX, id uuid.UUID, runAt time.Time, lastError string, now time.Time) error
	MarkDead(ctx context.Context, tx db.DBTX, id uuid.UUID, lastError string, now time.Time) error
}

// Dispatcher drains notification_jobs. A failed delivery is retried with exponential
// backoff and is never reported back to the booking operation that queued it.
type Dispatcher struct {
	tx       TxRunner
	jobs     JobStore
	notifier messaging.Notifier
	clock    clock.Clock

	interval    time.Duration
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
	sendTimeout time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewDispatcher(tx TxRunner, jobs JobStore, notifier messaging.Notifier, clk clock.Clock, cfg config.NotifyConfig) *Dispatcher {
	d := &Dispatcher{
		tx:          tx,
		jobs:        jobs,
		notifier:    notifier,
		clock:       clk,
		interval:    cfg.PollInterval,
		batchSize:   cfg.BatchSize,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   5 * time.Second,
		sendTimeout: 5 * time.Second,
		stop:        make(chan struct{}),
	}
	if d.interval <= 0 {
		d.interval = 2 * time.Second
	}
	if d.batchSize <= 0 {
		d.batchSize = 20
	}
	if d.maxAttempts <= 0 {
		d.maxAttempts = 8
	}
	return d
}

func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-d.stop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), d.interval+d.sendTimeout*time.Duration(d.batchSize))
				if _, err := d.RunOnce(ctx); err != nil {
					slog.Warn("outbox dispatch failed", "error", err.Error())
				}
				cancel()
			}
		}
	}()
	slog.Info("outbox dispatcher started", "interval", d.interval, "batch_size", d.batchSize)
}

func (d *Dispatcher) Stop(ctx context.Context) error {
	d.once.Do(func() { close(d.stop) })
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce delivers one batch of due jobs and returns how many were sent.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	sent := 0
	err := d.tx.WithinDB(ctx, func(ctx context.Context, tx db.DBTX) error {
		sent = 0
		now := d.clock.Now()
		jobs, err := d.jobs.ClaimDue(ctx, tx, now, d.batchSize)
		if err != nil {
			return err
		}
		for _, job := range jobs {
			if err := d.deliver(ctx, job); err != nil {
				if err := d.fail(ctx, tx, job, err, now); err != nil {
					return err
				}
				continue
			}
			if err := d.jobs.MarkSent(ctx, tx, job.ID, now); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	return sent, err
}

func (d *Dispatcher) deliver(ctx context.Context, job repository.NotificationJob) error {
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	return d.notifier.Notify(ctx, messaging.Message{
		ID:      job.ID.String(),
		Kind:    job.Kind,
		Topic:   job.Topic,
		Payload: job.Payload,
	})
}

func (d *Dispatcher) fail(ctx context.Context, tx db.DBTX, job repository.NotificationJob, cause error, now time.Time) error {
	attempts := job.Attempts + 1
	if attempts >= d.maxAttempts {
		slog.Error("notification dead-lettered", "job_id", job.ID, "kind", job.Kind, "attempts", attempts, "error", cause.Error())
		return d.jobs.MarkDead(ctx, tx, job.ID, cause.Error(), now)
	}
	next := now.Add(d.backoff(attempts))
	slog.Warn("notification delivery failed", "job_id", job.ID, "kind", job.Kind, "attempts", attempts, "next_run_at", next, "error", cause.Error())
	return d.jobs.Reschedule(ctx, tx, job.ID, next, cause.Error(), now)
}

func (d *Dispatcher) backoff(attempts int) time.Duration {
	delay := d.baseDelay << min(attempts-1, 10)
	return min(delay, time.Hour)
}
