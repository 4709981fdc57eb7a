package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported order store drivers
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreS3       = "s3"
	StoreMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Port        string
	GoEnv       string
	LogLevel    string
	Timezone    string
	AdminPIN    string
	CORSOrigins []string

	StoreDriver string
	StorageKey  string
	DataDir     string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	Prices PriceConfig
}

// PriceConfig holds the tariff as decimal strings so no precision is lost
// before the pricing calculator parses them
type PriceConfig struct {
	BasePerKg         string
	ExpressMultiplier string
	IroningPerKg      string
	StainFlat         string
	DeliveryFlat      string
}

var appConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB must be an integer: %w", err)
	}

	config := &Config{
		Port:        getEnv("PORT", "8080"),
		GoEnv:       getEnv("GO_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    getEnv("TIMEZONE", "Asia/Jakarta"),
		AdminPIN:    getEnv("ADMIN_PIN", "1234"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreFile)),
		StorageKey:  getEnv("STORAGE_KEY", "laundry_orders"),
		DataDir:     getEnv("DATA_DIR", "./data"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		Prices: PriceConfig{
			BasePerKg:         getEnv("PRICE_BASE_PER_KG", "7000"),
			ExpressMultiplier: getEnv("PRICE_EXPRESS_MULTIPLIER", "1.5"),
			IroningPerKg:      getEnv("PRICE_IRONING_PER_KG", "3000"),
			StainFlat:         getEnv("PRICE_STAIN_FLAT", "5000"),
			DeliveryFlat:      getEnv("PRICE_DELIVERY_FLAT", "10000"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Validate checks that the values required by the selected store driver are set
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreFile:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the file store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case StoreSQLite, StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store")
		}
	case StoreS3:
		if c.AWSS3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required for the s3 store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.StorageKey == "" {
		return fmt.Errorf("STORAGE_KEY must not be empty")
	}
	if c.AdminPIN == "" {
		return fmt.Errorf("ADMIN_PIN must not be empty")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// GetConfig returns the most recently loaded configuration
func GetConfig() *Config {
	return appConfig
}

// SetConfig sets the configuration instance (primarily for testing)
func SetConfig(cfg *Config) {
	appConfig = cfg
}

// getEnv retrieves an environment variable or returns a default value
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
