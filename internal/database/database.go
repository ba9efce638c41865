package database

import (
	"database/sql"
	"log"
	"time"

	"github.com/mojtabasji/HistoryBox-sub000/internal/config"
	"github.com/mojtabasji/HistoryBox-sub000/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

func Connect(cfg *config.Config) (*DB, error) {
	logLevel := logger.Silent
	if cfg.ServerEnv == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	// Register metrics plugin for Prometheus
	if err := db.Use(&MetricsPlugin{}); err != nil {
		log.Printf("Failed to register metrics plugin: %v", err)
	} else {
		log.Println("Database metrics plugin registered")
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err == nil {
		configurePool(sqlDB)
		log.Println("Database connection pool configured")
	}

	return &DB{db}, nil
}

func configurePool(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(300 * time.Second)
}

// Migrate runs AutoMigrate for all models
func Migrate(db *DB) error {
	return db.AutoMigrate(
		// User domain
		&models.User{},
		&models.FCMDevice{},

		// Region domain
		&models.Region{},
		&models.Memory{},
		&models.UnlockRecord{},
		&models.RegionWatch{},

		// Payment domain
		&models.PaymentTransaction{},
	)
}
