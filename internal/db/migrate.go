package db

import (
	"fmt"

	"github.com/GGCryptoh/jarvis-inc/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model that makes up the schema.
func AllModels() []interface{} {
	return []interface{}{
		&models.Instance{},
		&models.ActivityEvent{},
		&models.Release{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
