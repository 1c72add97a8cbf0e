package db

import (
	"context"                        // Context for Mongo operations
	"sports_academy/internal/config" // Application configuration
	"sports_academy/internal/domain" // Importing domain models
	"sports_academy/internal/store"  // Store backends

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(gdb *gorm.DB) error {
	// AutoMigrate will create tables, missing columns and indexes
	return gdb.AutoMigrate(&domain.User{}, &domain.Class{}, &domain.SelectedClass{}, &domain.Enrollment{})
}

// MigrateAll prepares the configured backend: tables for SQL drivers, indexes for Mongo
func MigrateAll(ctx context.Context, cfg *config.Config) error {
	if cfg.DBDriver == config.DriverMemory {
		logrus.Info("Memory store needs no migration.")
		return nil
	}
	if cfg.DBDriver == config.DriverMongo {
		client, err := ConnectMongo(ctx, cfg.MongoURI) // Connect to Mongo
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(ctx) }()
		if err := store.NewMongoStore(client, cfg.DBName).EnsureIndexes(ctx); err != nil { // Create indexes
			return err
		}
		logrus.Info("Mongo indexes ensured.") // Log successful migration
		return nil
	}
	gdb, err := OpenGorm(cfg) // Open a connection to the SQL database
	if err != nil {
		return err
	}
	if err := Migrate(gdb); err != nil {
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
