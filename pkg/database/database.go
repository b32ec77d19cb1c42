package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"facade_backend/pkg/logger"
)

// Open connects to PostgreSQL for postgres:// DSNs and to SQLite otherwise.
func Open(dsn string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Error),
		PrepareStmt: false,
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // avoids prepared statement clashes behind poolers
		})
	} else {
		logger.Log.Infof("Using SQLite database: %s", dsn)
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	logger.Log.Info("Database connected successfully")
	return db, nil
}

func MigrateDatabase(db *gorm.DB, models ...interface{}) error {
	for _, model := range models {
		if !db.Migrator().HasTable(model) {
			if err := db.Migrator().CreateTable(model); err != nil {
				return fmt.Errorf("create table for %T: %w", model, err)
			}
			logger.Log.Infof("Created table for %T", model)
			continue
		}
		if err := db.Migrator().AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
		logger.Log.Debugf("Updated table for %T", model)
	}
	return nil
}
