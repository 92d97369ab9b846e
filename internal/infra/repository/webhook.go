package repository

import (
	"context"
	"time"

	"villa-reservation/internal/infra"
	"villa-reservation/internal/infra/db"
)

type WebhookEventRepository struct{}

func NewWebhookEventRepository() *WebhookEventRepository {
	return &WebhookEventRepository{}
}

func (r *WebhookEventRepository) Record(ctx context.Context, tx db.DBTX, eventID, eventType string, at time.Time) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO payment_webhook_events (event_id, event_type, received_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO NOTHING`,
		eventID, eventType, at,
	)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to record webhook event", err)
	}
	return tag.RowsAffected() == 1, nil
}
