package main

import (
	"context"                         // context package is needed for startup and shutdown
	"errors"                          // For detecting a closed server
	"net/http"                        // HTTP server
	"os"                              // For signal types
	"os/signal"                       // For graceful shutdown
	"sports_academy/internal/api"     // Custom package for API handlers
	"sports_academy/internal/config"  // Custom package for configuration
	"sports_academy/internal/db"      // Store selection
	"sports_academy/internal/payment" // Payment gateway
	"sports_academy/internal/utils"   // Cache
	"syscall"                         // SIGTERM
	"time"                            // Shutdown timeout

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/rs/cors"           // CORS handler
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if cfg.JWTSecret == "" {
		logrus.Fatal("ACCESS_TOKEN_SECRET is not set")
	}

	ctx := context.Background()

	// Connect to the configured store
	st, err := db.OpenStore(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to open store: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	gateway, err := payment.NewGateway(cfg)
	if err != nil {
		logrus.Fatalf("failed to set up payments: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	api.RegisterRoutes(r, api.Deps{
		Store:     st,
		Cache:     utils.NewRedisCache(redisClient),
		Gateway:   gateway,
		JWTSecret: cfg.JWTSecret,
		Currency:  cfg.PaymentCurrency,
	})

	// Browser clients call the API cross-origin
	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":     cfg.AppPort,         // Listen port
			"store":    cfg.DBDriver,        // Store backend
			"payments": cfg.PaymentProvider, // Gateway
		}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("server shutdown: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		logrus.Errorf("redis close: %v", err)
	}
	if err := st.Close(shutdownCtx); err != nil {
		logrus.Errorf("store close: %v", err)
	}
}
