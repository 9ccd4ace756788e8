// Package database owns the DB connection and schema migration.
package database

import (
	"momentum_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the postgres connection.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
}

// Migrate applies the schema. Ordered so foreign key targets exist first.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.PromoCode{},
		&models.User{},
		&models.Content{},
		&models.ActionLog{},
		&models.AuditLog{},
	)
}
