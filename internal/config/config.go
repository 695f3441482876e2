package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port            int
	Environment     string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64

	// Explorer
	PreviewRows   int
	HistogramBins int
	ChartWidth    int
	ChartHeight   int
	HeatmapHeight int

	// Sessions
	SessionTTL  time.Duration
	MaxSessions int

	// CORS
	AllowedOrigins []string

	// Clerk Auth
	EnableAuth     bool
	ClerkSecretKey string
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Port:            getEnvInt("PORT", 8080),
		Environment:     getEnv("ENVIRONMENT", "development"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_BYTES", 200*1024*1024)),
		PreviewRows:     getEnvInt("PREVIEW_ROWS", 5),
		HistogramBins:   getEnvInt("HISTOGRAM_BINS", 20),
		ChartWidth:      getEnvInt("CHART_WIDTH", 1500),
		ChartHeight:     getEnvInt("CHART_HEIGHT", 500),
		HeatmapHeight:   getEnvInt("HEATMAP_HEIGHT", 1000),
		SessionTTL:      getEnvDuration("SESSION_TTL", 30*time.Minute),
		MaxSessions:     getEnvInt("MAX_SESSIONS", 64),
		AllowedOrigins:  getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),
		EnableAuth:      getEnvBool("ENABLE_AUTH", false),
		ClerkSecretKey:  getEnv("CLERK_SECRET_KEY", ""),
	}

	// Validate required fields
	if cfg.EnableAuth && cfg.ClerkSecretKey == "" {
		return nil, fmt.Errorf("CLERK_SECRET_KEY is required when ENABLE_AUTH is set")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.HistogramBins <= 0 {
		return nil, fmt.Errorf("HISTOGRAM_BINS must be positive")
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with ENVIRONMENT=production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blanks
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
