package database

import (
	"fmt"
	"log"

	"github.com/pageza/snapcal/backend/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the tables for every model
func Migrate(db *gorm.DB) error {
	log.Printf("Running GORM auto-migration (%s)", db.Dialector.Name())
	if err := db.AutoMigrate(
		&models.Profile{},
		&models.FoodEntry{},
		&models.AnalyzerSettings{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
