package billing

import "time"

// WebhookEvent records a processed gateway event. The unique event id is the
// idempotency key: a replayed delivery fails the insert and is acknowledged
// without reapplying side effects.
type WebhookEvent struct {
	ID          uint   `gorm:"primaryKey"`
	EventID     string `gorm:"column:event_id;not null;uniqueIndex:idx_webhook_events_event_id"`
	EventType   string
	ProcessedAt time.Time
}
