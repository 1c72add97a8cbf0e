package db

import (
	"context"                        // Context for Mongo operations
	"fmt"                            // Error wrapping
	"sports_academy/internal/config" // Application configuration
	"sports_academy/internal/store"  // Store backends
	"time"                           // Connect timeout

	"go.mongodb.org/mongo-driver/mongo"         // Mongo client
	"go.mongodb.org/mongo-driver/mongo/options" // Mongo client options
	"gorm.io/driver/mysql"                      // MySQL driver for GORM
	"gorm.io/driver/postgres"                   // Postgres driver for GORM
	"gorm.io/gorm"                              // GORM ORM library
)

// OpenGorm connects to the SQL database selected by cfg.DBDriver
func OpenGorm(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.DSN())
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.DBDriver)
	}
	// TranslateError turns unique violations into gorm.ErrDuplicatedKey
	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}
	return gdb, nil
}

// ConnectMongo connects to Mongo and pings the deployment
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// OpenStore opens the backend selected by cfg.DBDriver
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case config.DriverMemory:
		return store.NewMemoryStore(), nil
	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		return store.NewMongoStore(client, cfg.DBName), nil
	}
	gdb, err := OpenGorm(cfg)
	if err != nil {
		return nil, err
	}
	return store.NewGormStore(gdb), nil
}
