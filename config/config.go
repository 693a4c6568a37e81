package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	MongoURI      string
	DatabaseName  string
	SigningKey    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
	RabbitURL     string
	AuditConsumer bool
	AuditLogPath  string
	LogLevel      string
}

func GetSecret(key string) (string, error) {
	val, exist := os.LookupEnv(key)
	if exist {
		return val, nil
	}
	return "", fmt.Errorf("no env variable with key %v", key)
}

func getOr(key string, fallback string) string {
	if val, err := GetSecret(key); err == nil && val != "" {
		return val
	}
	return fallback
}

// Load reads the environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getOr("PORT", "80"),
		DatabaseName:  getOr("MONGODB_DATABASE", "travel-booking"),
		RedisAddr:     getOr("REDIS_ADDR", ""),
		RedisPassword: getOr("REDIS_PASSWORD", ""),
		RabbitURL:     getOr("RABBITMQ_URL", ""),
		AuditLogPath:  getOr("AUDIT_LOG_PATH", "logs/booking.log"),
		LogLevel:      getOr("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.MongoURI, err = GetSecret("MONGODB_CONNSTRING"); err != nil {
		return nil, fmt.Errorf("cannot find connection string for DB in the environment: %w", err)
	}
	if cfg.SigningKey, err = GetSecret("SIGN"); err != nil || cfg.SigningKey == "" {
		return nil, fmt.Errorf("cannot find JWT signing key in the environment")
	}

	if cfg.RedisDB, err = strconv.Atoi(getOr("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.CacheTTL, err = time.ParseDuration(getOr("LISTING_CACHE_TTL", "60s")); err != nil {
		return nil, fmt.Errorf("LISTING_CACHE_TTL: %w", err)
	}
	if cfg.AuditConsumer, err = strconv.ParseBool(getOr("AUDIT_CONSUMER", "false")); err != nil {
		return nil, fmt.Errorf("AUDIT_CONSUMER: %w", err)
	}
	return cfg, nil
}
