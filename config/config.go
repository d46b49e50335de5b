// Package config loads the server configuration from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/camsfolio"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	Port               string
	LogLevel           string
	MaxUploadSizeBytes int64
	MaxRequestBytes    int64 // upload request body, every file included
	NAVFile            string
	ExtractorCommand   string
	SessionTTL         time.Duration
	AllowedOrigins     []string // empty allows every origin
	TempDir            string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// Load reads the configuration. Invalid values are reported and replaced by their default.
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("no .env file loaded, relying on the environment")
	}

	return &AppConfig{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxUploadSizeBytes: getEnvAsInt64("MAX_UPLOAD_SIZE_BYTES", camsfolio.DefaultMaxSize),
		MaxRequestBytes:    getEnvAsInt64("MAX_REQUEST_SIZE_BYTES", 4*camsfolio.DefaultMaxSize),
		NAVFile:            getEnv("NAV_FILE", "NAVAll.txt"),
		ExtractorCommand:   getEnv("EXTRACTOR_COMMAND", "cams-extract"),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 2*time.Hour),
		AllowedOrigins:     splitAndTrim(getEnv("ALLOWED_ORIGINS", "")),
		TempDir:            getEnv("TEMP_DIR", ""),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     int(getEnvAsInt64("RATE_LIMIT_BURST", 30)),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil && value > 0 {
		return value
	}
	logrus.Warnf("Invalid integer value for %s (%q), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil && value > 0 {
		return value
	}
	logrus.Warnf("Invalid number for %s (%q), using default: %v", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	logrus.Warnf("Invalid duration value for %s (%q), using default: %s", key, valueStr, fallback)
	return fallback
}

func splitAndTrim(s string) []string {
	var res []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}
