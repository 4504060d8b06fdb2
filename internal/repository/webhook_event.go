package repository

import (
	"time"

	"divination-app/internal/domain/billing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WebhookEventRepository is the serialization point for webhook idempotency.
// The Ledger calls it on the transaction handle so the event-id insert and
// the mutation it guards commit or roll back together.
type WebhookEventRepository interface {
	// MarkProcessed records the event id. Returns false when the id was
	// already recorded (duplicate delivery).
	MarkProcessed(eventID, eventType string) (bool, error)
}

type webhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

func (r *webhookEventRepository) MarkProcessed(eventID, eventType string) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&billing.WebhookEvent{
		EventID:     eventID,
		EventType:   eventType,
		ProcessedAt: time.Now(),
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
