package repository

import (
	"context"
	"encoding/json"
	"time"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/infra"
	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	JobStatusQueued = "queued"
	JobStatusSent   = "sent"
	JobStatusDead   = "dead"
)

// NotificationJob is an outbox row claimed by the dispatcher.
type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	RunAt    time.Time
	Attempts int
}

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(db db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Enqueue(ctx context.Context, tx db.DBTX, events []booking.Event, runAt time.Time) error {
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to encode notification payload", err)
		}
		if err := r.CreateJob(ctx, tx, string(ev.Kind), ev.Topic(), payload, runAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *NotificationRepository) CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO notification_jobs (kind, topic, payload, run_at, status)
		VALUES ($1, $2, $3, $4, $5)`,
		kind, topic, payload, runAt, JobStatusQueued,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to create notification job", err)
	}
	return nil
}

// ClaimDue locks up to limit due jobs; concurrent dispatchers skip each other's rows.
func (r *NotificationRepository) ClaimDue(ctx context.Context, tx db.DBTX, now time.Time, limit int) ([]NotificationJob, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, kind, topic, payload, run_at, attempts
		FROM notification_jobs
		WHERE status = $1 AND run_at <= $2
		ORDER BY run_at, created_at
		LIMIT $3
		FOR UPDATE SKIP LOCKED`,
		JobStatusQueued, now, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []NotificationJob
	for rows.Next() {
		var j NotificationJob
		if err := rows.Scan(&j.ID, &j.Kind, &j.Topic, &j.Payload, &j.RunAt, &j.Attempts); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan notification job", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) error {
	return r.updateStatus(ctx, tx, id, JobStatusSent, nil, nil, now)
}

// Reschedule keeps the job queued for another attempt at runAt.
func (r *NotificationRepository) Reschedule(ctx context.Context, tx db.DBTX, id uuid.UUID, runAt time.Time, lastError string, now time.Time) error {
	return r.updateStatus(ctx, tx, id, JobStatusQueued, &runAt, &lastError, now)
}

func (r *NotificationRepository) MarkDead(ctx context.Context, tx db.DBTX, id uuid.UUID, lastError string, now time.Time) error {
	return r.updateStatus(ctx, tx, id, JobStatusDead, nil, &lastError, now)
}

func (r *NotificationRepository) updateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status string, runAt *time.Time, lastError *string, now time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE notification_jobs SET
			status = $2,
			attempts = attempts + CASE WHEN $2 = 'sent' THEN 0 ELSE 1 END,
			run_at = COALESCE($3, run_at),
			last_error = $4,
			updated_at = $5
		WHERE id = $1`,
		id, status, pgconv.TimePtrToPgtype(runAt), pgconv.StringPtrToPgtype(lastError), now,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update notification job status", err)
	}
	return nil
}
