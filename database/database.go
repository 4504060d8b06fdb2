package database

import (
	"fmt"

	"divination-app/internal/domain/billing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init connects and migrates the billing schema.
func Init(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&billing.Order{},
		&billing.WebhookEvent{},
		&billing.Payment{},
	); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	return db, nil
}
