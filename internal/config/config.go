package config

import (
	"fmt"     // For DSN formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For splitting list values

	"github.com/joho/godotenv" // For loading .env files
)

// Supported store drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory" // In-process store for local runs
)

// Supported payment providers
const (
	ProviderStripe   = "stripe"
	ProviderMidtrans = "midtrans"
)

// Config holds the application configuration
type Config struct {
	AppPort          string   // Application port
	DBDriver         string   // mysql, postgres, mongo or memory
	DBUser           string   // Database user
	DBPassword       string   // Database password
	DBHost           string   // Database host
	DBPort           string   // Database port
	DBName           string   // Database name (also the Mongo database)
	MongoURI         string   // Mongo connection string
	JWTSecret        string   // Token signing secret
	RedisAddr        string   // Redis server address
	RedisPass        string   // Redis password
	RedisDB          int      // Redis database number
	PaymentProvider  string   // stripe or midtrans
	PaymentSecretKey string   // Gateway secret / server key
	PaymentCurrency  string   // Fixed currency for payment intents
	PaymentAPIURL    string   // Gateway endpoint override (stripe-mock), empty for the default
	CORSOrigins      []string // Allowed CORS origins
	IsProd           bool     // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:          getEnv("APP_PORT", "5000"),
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBHost:           getEnv("DB_HOST", "127.0.0.1"),
		DBPort:           os.Getenv("DB_PORT"),
		DBName:           getEnv("DB_NAME", "eliteSports"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		JWTSecret:        os.Getenv("ACCESS_TOKEN_SECRET"),
		RedisAddr:        getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:        os.Getenv("REDIS_PASS"),
		RedisDB:          redisDB,
		PaymentProvider:  strings.ToLower(getEnv("PAYMENT_PROVIDER", ProviderStripe)),
		PaymentSecretKey: os.Getenv("PAYMENT_SECRET_KEY"),
		PaymentCurrency:  strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),
		PaymentAPIURL:    os.Getenv("PAYMENT_API_URL"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		IsProd:           os.Getenv("IS_PROD") == "true",
	}
}

// DSN builds the data source name for the SQL drivers
func (c *Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, port, c.DBUser, c.DBPassword, c.DBName)
	}
	port := c.DBPort
	if port == "" {
		port = "3306"
	}
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
