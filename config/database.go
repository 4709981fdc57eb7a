package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kendall-kelly/cleanrush-laundry-api/models"
)

var DB *gorm.DB

// ConnectDatabase opens the SQL database backing the sqlite and postgres
// order stores and migrates the snapshot table
func ConnectDatabase(cfg *Config) error {
	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case StorePostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	case StoreSQLite:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			// Fallback to a file next to the JSON data for local development
			if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			dsn = filepath.Join(cfg.DataDir, "laundry.db")
			Logger().Info("DATABASE_URL not set, using default sqlite file", zap.String("path", dsn))
		}
		dialector = sqlite.Open(dsn)
	default:
		return fmt.Errorf("store driver %q does not use a database", cfg.StoreDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.OrderSnapshot{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	DB = db
	Logger().Info("Database connection established", zap.String("driver", cfg.StoreDriver))
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
