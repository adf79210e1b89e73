// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recordsdesk/rmd-backend/internal/config"
	"github.com/recordsdesk/rmd-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.FileRequest{},
		&models.Notification{},
		&models.TimeExtension{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_account_type ON users(account_type)",
		"CREATE INDEX IF NOT EXISTS idx_users_department ON users(department)",
		"CREATE INDEX IF NOT EXISTS idx_users_section ON users(section)",

		// File request indexes
		"CREATE INDEX IF NOT EXISTS idx_file_requests_requester ON file_requests(requester_id)",
		"CREATE INDEX IF NOT EXISTS idx_file_requests_section ON file_requests(section)",
		"CREATE INDEX IF NOT EXISTS idx_file_requests_department ON file_requests(department)",
		"CREATE INDEX IF NOT EXISTS idx_file_requests_current_step ON file_requests(current_step)",
		"CREATE INDEX IF NOT EXISTS idx_file_requests_created_at ON file_requests(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_file_requests_auth_status ON file_requests(authorization_status)",
		"CREATE INDEX IF NOT EXISTS idx_file_requests_release_deadline ON file_requests(file_release_deadline)",
		"CREATE INDEX IF NOT EXISTS idx_file_requests_return_deadline ON file_requests(file_return_deadline)",

		// Notification indexes
		"CREATE INDEX IF NOT EXISTS idx_notifications_channel ON notifications(channel, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id)",

		// Time extension indexes
		"CREATE INDEX IF NOT EXISTS idx_time_extensions_request ON time_extensions(request_id)",
		"CREATE INDEX IF NOT EXISTS idx_time_extensions_status ON time_extensions(status, expires_at)",

		// Full-text search index
		"CREATE INDEX IF NOT EXISTS idx_file_requests_search ON file_requests USING GIN(to_tsvector('english', company_name || ' ' || registration_number || ' ' || reference_number))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
