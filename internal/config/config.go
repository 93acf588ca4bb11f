// Package config reads the service configuration from the environment and .env files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/electrotech/salesforecaster/cadence"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the service
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Logging
	LogLevel  string
	LogFormat string

	// Feature schema location, tried before the default candidates
	SchemaPath string

	// Model artifacts
	Models          map[cadence.Cadence]ModelConfig
	DownloadTimeout time.Duration

	// Request limiting of /predict, disabled when RateLimitRPS is 0
	RateLimitRPS   float64
	RateLimitBurst int

	// Publishing
	Store StoreConfig
}

// ModelConfig locates the artifact of one cadence
type ModelConfig struct {
	Path string
	URL  string
}

// StoreConfig holds the model store used by the publish command
type StoreConfig struct {
	URL      string
	Token    string
	ModelDir string
	Timeout  time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8000"),
		Env:  getEnv("ENV", "development"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		SchemaPath: getEnv("SCHEMA_PATH", ""),

		Models:          make(map[cadence.Cadence]ModelConfig),
		DownloadTimeout: getEnvAsDuration("MODEL_DOWNLOAD_TIMEOUT", "60s"),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),

		Store: StoreConfig{
			URL:      getEnv("MODEL_STORE_URL", ""),
			Token:    getEnv("MODEL_STORE_TOKEN", ""),
			ModelDir: getEnv("MODEL_DIR", "model"),
			Timeout:  getEnvAsDuration("MODEL_STORE_TIMEOUT", "5m"),
		},
	}

	for _, c := range cadence.All() {
		prefix := strings.ToUpper(c.String())
		cfg.Models[c] = ModelConfig{
			Path: getEnv(prefix+"_MODEL_PATH", ""),
			URL:  getEnv(prefix+"_MODEL_URL", getEnv(prefix+"_MODEL_HUGGINGFACE_URL", "")),
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.LogFormat {
	case "json", "console", "pretty":
	default:
		return fmt.Errorf("LOG_FORMAT must be one of: json, console, pretty")
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535")
	}

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func loadEnvFile() {
	paths := []string{
		".env",
		"deploy/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
