package models

import (
	"gorm.io/gorm"
)

// Database migration function
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Destination{},
		&DestinationImage{},
		&Feedback{},
		&Favorite{},
	)
}

func CreateIndexes(db *gorm.DB) error {
	// Composite indexes for common queries
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_feedbacks_destination_created ON feedbacks(destination_id, created_at DESC)").Error; err != nil {
		return err
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_destinations_category_available ON destinations(category, is_available)").Error; err != nil {
		return err
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_destinations_rating_desc ON destinations(average_rating DESC)").Error; err != nil {
		return err
	}

	return nil
}
