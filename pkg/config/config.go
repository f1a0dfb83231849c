// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	Throttle ThrottleConfig
	Pipeline PipelineConfig
}

type DatabaseConfig struct {
	// URL is a pgx connection string. Empty means run on the in-memory
	// store.
	URL string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

type ThrottleConfig struct {
	// ExtractionsPerMinute bounds how often one user may invoke the
	// extraction collaborator.
	ExtractionsPerMinute int
	Burst                int
}

type PipelineConfig struct {
	Timezone string
}

// Load reads configuration from environment variables, applying defaults
// for anything unset.
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Throttle: ThrottleConfig{
			ExtractionsPerMinute: 20,
			Burst:                5,
		},
		Pipeline: PipelineConfig{
			Timezone: getEnv("PIPELINE_TIMEZONE", "Europe/Kyiv"),
		},
	}

	var err error
	if cfg.Throttle.ExtractionsPerMinute, err = getEnvInt("THROTTLE_EXTRACTIONS_PER_MINUTE", cfg.Throttle.ExtractionsPerMinute); err != nil {
		return nil, err
	}
	if cfg.Throttle.Burst, err = getEnvInt("THROTTLE_BURST", cfg.Throttle.Burst); err != nil {
		return nil, err
	}
	if cfg.Throttle.ExtractionsPerMinute <= 0 || cfg.Throttle.Burst <= 0 {
		return nil, fmt.Errorf("throttle settings must be positive, got rate=%d burst=%d",
			cfg.Throttle.ExtractionsPerMinute, cfg.Throttle.Burst)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
