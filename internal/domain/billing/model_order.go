package billing

import "time"

// AppTag is stamped into intent metadata at creation so the webhook
// reconciler can tell this app's intents from other activity on the same
// gateway account.
const AppTag = "iching-divination"

// Order status values. Linear lifecycle: pending -> paid | failed, and
// paid -> refunded when the gateway reverses the charge.
const (
	OrderPending  = "pending"
	OrderPaid     = "paid"
	OrderFailed   = "failed"
	OrderRefunded = "refunded"
)

// Order is one payment attempt as the server sees it, keyed by the
// client-generated order id. Retries with the same order id reuse the row.
type Order struct {
	ID              uint   `gorm:"primaryKey"`
	OrderID         string `gorm:"column:order_id;not null;uniqueIndex:idx_orders_order_id"`
	PaymentIntentID *string
	AmountCents     int64
	Currency        string
	Description     string
	Status          string `gorm:"default:pending"`
	FailureReason   *string
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
