package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Every environment variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Upstream financial-data provider
	Provider ProviderConfig

	// Transcript summarization
	Summarizer SummarizerConfig

	// Pipeline
	Pipeline PipelineConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ProviderConfig holds configuration for the upstream data provider.
type ProviderConfig struct {
	BaseURL string
	Timeout time.Duration

	// Requests per second allowed against the provider, with burst headroom.
	RateLimit float64
	RateBurst int
}

// SummarizerConfig holds configuration for the LLM summarizer.
type SummarizerConfig struct {
	Enabled bool
	Model   string
	Timeout time.Duration

	// Transcripts longer than ChunkSize characters are split before summarization.
	ChunkSize    int
	ChunkOverlap int
}

// PipelineConfig holds per-run pipeline settings.
type PipelineConfig struct {
	// Upper bound applied to each stage of an onboarding run.
	StageTimeout time.Duration

	// Default lookback window when the caller does not pass one.
	DefaultYears int
}

// SchedulerConfig holds scheduled-refresh settings.
type SchedulerConfig struct {
	Enabled     bool
	RefreshCron string
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Provider: ProviderConfig{
			BaseURL:   getEnv("PROVIDER_BASE_URL", "https://api.defeatbeta.com"),
			Timeout:   getEnvAsDuration("PROVIDER_TIMEOUT", "30s"),
			RateLimit: getEnvAsFloat("PROVIDER_RATE_LIMIT", 5),
			RateBurst: getEnvAsInt("PROVIDER_RATE_BURST", 10),
		},

		Summarizer: SummarizerConfig{
			Enabled:      getEnvAsBool("SUMMARIZER_ENABLED", true),
			Model:        getEnv("SUMMARIZER_MODEL", "gpt-4o-mini"),
			Timeout:      getEnvAsDuration("SUMMARIZER_TIMEOUT", "2m"),
			ChunkSize:    getEnvAsInt("SUMMARIZER_CHUNK_SIZE", 16000),
			ChunkOverlap: getEnvAsInt("SUMMARIZER_CHUNK_OVERLAP", 400),
		},

		Pipeline: PipelineConfig{
			StageTimeout: getEnvAsDuration("PIPELINE_STAGE_TIMEOUT", "5m"),
			DefaultYears: getEnvAsInt("PIPELINE_DEFAULT_YEARS", 2),
		},

		Scheduler: SchedulerConfig{
			Enabled:     getEnvAsBool("SCHEDULER_ENABLED", false),
			RefreshCron: getEnv("SCHEDULER_REFRESH_CRON", "0 0 18 * * 1-5"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Pipeline.DefaultYears <= 0 {
		return fmt.Errorf("PIPELINE_DEFAULT_YEARS must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
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
