package repository

import (
	"errors"
	"time"

	"divination-app/internal/domain/billing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger applies webhook events to the order/payment tables. Each apply runs
// in one transaction that starts by inserting the event id; a duplicate
// delivery loses that insert and the whole apply becomes a no-op, which is
// what makes replays safe across concurrent instances.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

type SettleParams struct {
	EventID         string
	EventType       string
	OrderID         string
	PaymentIntentID string
	AmountCents     int64
	Currency        string
	// Status is the bucketed intent status recorded on the payment row.
	Status string
}

// SettlePayment marks the originating order paid and records the settled
// payment, exactly once per event id. The order row is created on the fly
// when the client never reached the intent endpoint of this instance.
func (l *Ledger) SettlePayment(p SettleParams) (bool, error) {
	if p.OrderID == "" {
		return false, errors.New("event missing orderId metadata")
	}

	applied := false
	err := l.db.Transaction(func(tx *gorm.DB) error {
		fresh, err := NewWebhookEventRepository(tx).MarkProcessed(p.EventID, p.EventType)
		if err != nil || !fresh {
			return err
		}

		now := time.Now()
		order := billing.Order{
			OrderID:         p.OrderID,
			PaymentIntentID: &p.PaymentIntentID,
			AmountCents:     p.AmountCents,
			Currency:        p.Currency,
			Status:          billing.OrderPaid,
			PaidAt:          &now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payment_intent_id", "status", "paid_at", "updated_at"}),
		}).Create(&order).Error; err != nil {
			return err
		}

		var settled billing.Order
		if err := tx.Where("order_id = ?", p.OrderID).First(&settled).Error; err != nil {
			return err
		}
		if err := tx.Create(&billing.Payment{
			OrderRef:      settled.ID,
			TransactionID: p.PaymentIntentID,
			AmountCents:   p.AmountCents,
			Currency:      p.Currency,
			Status:        p.Status,
		}).Error; err != nil {
			return err
		}

		applied = true
		return nil
	})
	return applied, err
}

// RecordFailure is record-only bookkeeping: the order is flagged failed if it
// is still pending, and nothing else moves.
func (l *Ledger) RecordFailure(eventID, eventType, orderID, reason string) (bool, error) {
	applied := false
	err := l.db.Transaction(func(tx *gorm.DB) error {
		fresh, err := NewWebhookEventRepository(tx).MarkProcessed(eventID, eventType)
		if err != nil || !fresh {
			return err
		}
		if orderID != "" {
			if err := tx.Model(&billing.Order{}).
				Where("order_id = ? AND status = ?", orderID, billing.OrderPending).
				Updates(map[string]interface{}{"status": billing.OrderFailed, "failure_reason": reason}).Error; err != nil {
				return err
			}
		}
		applied = true
		return nil
	})
	return applied, err
}

// RecordRefund flags a paid order refunded. Reversal of entitlement is a
// policy decision that stays out of the ledger.
func (l *Ledger) RecordRefund(eventID, eventType, paymentIntentID string) (bool, error) {
	applied := false
	err := l.db.Transaction(func(tx *gorm.DB) error {
		fresh, err := NewWebhookEventRepository(tx).MarkProcessed(eventID, eventType)
		if err != nil || !fresh {
			return err
		}
		if paymentIntentID != "" {
			if err := tx.Model(&billing.Order{}).
				Where("payment_intent_id = ? AND status = ?", paymentIntentID, billing.OrderPaid).
				Update("status", billing.OrderRefunded).Error; err != nil {
				return err
			}
		}
		applied = true
		return nil
	})
	return applied, err
}

// RecordIgnored durably acknowledges an event the ledger will never act on,
// such as a succeeded intent that does not belong to this app. Recording the
// id stops the sender from redelivering a decision that cannot change.
func (l *Ledger) RecordIgnored(eventID, eventType string) (bool, error) {
	return NewWebhookEventRepository(l.db).MarkProcessed(eventID, eventType)
}
