package postgres

import (
	"context"
	"fmt"
	"time"
)

// NotificationRepository records processed webhook notification triples so
// re-deliveries are detected. Adapted idempotency-key store: the key is
// (psp_reference, event_code, success) instead of a caller-supplied header.
type NotificationRepository struct {
	q queryEngine
}

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{q: db.Pool}
}

// MarkProcessed inserts the triple and reports whether it was new. The
// unique constraint makes the insert race-safe: of two concurrent
// deliveries exactly one observes first == true.
func (r *NotificationRepository) MarkProcessed(ctx context.Context, pspReference, eventCode string, success bool) (bool, error) {
	query := `
		INSERT INTO notification_events (psp_reference, event_code, success, processed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (psp_reference, event_code, success) DO NOTHING
	`

	tag, err := r.q.Exec(ctx, query, pspReference, eventCode, success, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to record notification: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
