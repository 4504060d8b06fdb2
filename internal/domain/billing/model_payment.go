package billing

import "time"

// Payment is the settled side of an order: one row per confirmed gateway
// transaction, written by the webhook reconciler.
type Payment struct {
	ID            uint `gorm:"primaryKey"`
	OrderRef      uint
	Order         Order  `gorm:"foreignKey:OrderRef"`
	TransactionID string `gorm:"uniqueIndex"`
	AmountCents   int64
	Currency      string
	Status        string
	CreatedAt     time.Time
}
