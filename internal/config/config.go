package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// defaultJWTSecret is only acceptable outside production.
const defaultJWTSecret = "change-me"

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	DatabasePath   string
	StoreDriver    string // "sqlite" or "redis"
	RedisAddr      string
	RedisPassword  string
	RedisPrefix    string
	JWTSecret      string
	AllowedOrigins []string
	LogLevel       string
	StatsCron      string // Empty disables the daily stats rollover
	Production     bool
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	driver := strings.ToLower(getEnv("STORE_DRIVER", "sqlite"))
	if driver != "sqlite" && driver != "redis" {
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}

	production := getEnv("APP_ENV", "") == "production"
	secret := getEnv("JWT_SECRET", defaultJWTSecret)
	if production && (secret == defaultJWTSecret || secret == "") {
		return nil, fmt.Errorf("JWT_SECRET must be set to a private value when APP_ENV=production")
	}

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./emote-panel.db"),
		StoreDriver:    driver,
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisPrefix:    getEnv("REDIS_PREFIX", "emotepanel:"),
		JWTSecret:      secret,
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StatsCron:      getEnv("STATS_ROLLOVER_CRON", "5 0 * * *"),
		Production:     production,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
