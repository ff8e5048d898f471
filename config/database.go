package config

import (
	"fmt"
	"time"

	"github.com/Aditya0Kumar/trackr-sub000/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the configured database and migrates the schema
func InitDB(config Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch config.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(config.SQLitePath)
	default:
		dialector = mysql.Open(config.GetDBConnString())
	}

	level := logger.Warn
	if config.Environment != "production" {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if config.DBDriver == "sqlite" {
		// sqlite allows one writer; serialise through a single connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := MigrateDB(db); err != nil {
		return nil, err
	}
	return db, nil
}

// MigrateDB creates or updates every table the service owns
func MigrateDB(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.WorkspaceMember{},
		&models.Task{},
		&models.ActivityEntry{},
		&models.AttendanceRecord{},
		&models.RectificationQuota{},
	)
	if err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	return nil
}
