package repository

import (
	"errors"

	"divination-app/internal/domain/billing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	// Upsert creates the order or, when the order id already exists,
	// refreshes the mutable fields. Retried intent creation with the same
	// order id must not produce a second row.
	Upsert(order *billing.Order) error
	FindByOrderID(orderID string) (*billing.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Upsert(order *billing.Order) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payment_intent_id", "amount_cents", "currency", "description", "updated_at"}),
	}).Create(order).Error
}

func (r *orderRepository) FindByOrderID(orderID string) (*billing.Order, error) {
	var order billing.Order
	err := r.db.Where("order_id = ?", orderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
