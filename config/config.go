package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	AppMode string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisEnabled  bool

	DispatchBatchSize      int
	DispatchBusyIntervalMs int
	DispatchIdleIntervalMs int

	ProjectionBatchSize int

	WatchdogIntervalSec int
	WatchdogBatchSize   int
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort: getEnv("APP_PORT", "8080"),
		AppMode: getEnv("APP_MODE", "debug"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "clearcheck"),
		DBPort:     getEnv("DB_PORT", "5432"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisEnabled:  getEnvAsBool("REDIS_ENABLED", true),

		DispatchBatchSize:      getEnvAsInt("DISPATCH_BATCH_SIZE", 100),
		DispatchBusyIntervalMs: getEnvAsInt("DISPATCH_BUSY_INTERVAL_MS", 100),
		DispatchIdleIntervalMs: getEnvAsInt("DISPATCH_IDLE_INTERVAL_MS", 1000),

		ProjectionBatchSize: getEnvAsInt("PROJECTION_BATCH_SIZE", 200),

		WatchdogIntervalSec: getEnvAsInt("WATCHDOG_INTERVAL_SEC", 60),
		WatchdogBatchSize:   getEnvAsInt("WATCHDOG_BATCH_SIZE", 500),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}
