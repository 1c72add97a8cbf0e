package main

import (
	"context"                        // Context for the migration run
	"sports_academy/internal/config" // Custom import path (Config)
	"sports_academy/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Create tables (SQL drivers) or indexes (Mongo) for the configured backend
	if err := db.MigrateAll(context.Background(), cfg); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
}
