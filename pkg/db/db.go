package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Kareemashraf12/YallaR7la/pkg/config"
	"github.com/Kareemashraf12/YallaR7la/pkg/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the gorm.DB instance with additional functionality
type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

// New creates a new database connection
func New(cfg *config.DatabaseConfig) (*DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	// Configure GORM
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	// Open database connection
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	if err := models.AutoMigrate(db.DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := models.CreateIndexes(db.DB); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// SeedInitialData seeds demo destinations when the catalog is empty
func (db *DB) SeedInitialData() error {
	if !db.config.SeedDemoData {
		return nil
	}

	var count int64
	if err := db.Model(&models.Destination{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count destinations: %w", err)
	}
	if count > 0 {
		return nil
	}

	owner := models.User{
		Name:         "Demo Owner",
		Email:        "owner@yallar7la.local",
		PasswordHash: "!", // not a valid bcrypt hash, the demo owner cannot log in
		Role:         models.RoleBusinessOwner,
	}
	var existing models.User
	result := db.Where("email = ?", owner.Email).First(&existing)
	if result.Error == gorm.ErrRecordNotFound {
		if err := db.Create(&owner).Error; err != nil {
			return fmt.Errorf("failed to seed demo owner: %w", err)
		}
	} else if result.Error != nil {
		return result.Error
	} else {
		owner = existing
	}

	destinations := []models.Destination{
		{
			Name:            "Sharm El Sheikh Resort",
			Description:     "Red Sea diving and beach resort",
			Location:        "Sharm El Sheikh, Egypt",
			Category:        "Beach",
			Cost:            450,
			Capacity:        20,
			AvailableSlots:  20,
			IsAvailable:     true,
			BusinessOwnerID: owner.ID,
		},
		{
			Name:            "Siwa Oasis Trek",
			Description:     "Desert safari and hot springs",
			Location:        "Siwa, Egypt",
			Category:        "Adventure",
			Cost:            300,
			Capacity:        12,
			AvailableSlots:  12,
			IsAvailable:     true,
			BusinessOwnerID: owner.ID,
		},
		{
			Name:            "Luxor Nile Cruise",
			Description:     "Temples and tombs along the Nile",
			Location:        "Luxor, Egypt",
			Category:        "Historical",
			Cost:            600,
			Capacity:        30,
			AvailableSlots:  30,
			IsAvailable:     true,
			BusinessOwnerID: owner.ID,
		},
	}

	for _, destination := range destinations {
		if err := db.Create(&destination).Error; err != nil {
			return fmt.Errorf("failed to seed destination %s: %w", destination.Name, err)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}

// Transaction executes a function within a database transaction
func (db *DB) Transaction(fn func(*gorm.DB) error) error {
	return db.DB.Transaction(fn)
}
