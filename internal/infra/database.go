package infra

import (
	"stockwatch/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate for the three tables this service owns.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.User{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
