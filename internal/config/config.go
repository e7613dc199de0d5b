package config

import (
	"os"
	"runtime"
	"strconv"

	"zebu/internal/analysis"
	"zebu/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Analysis AnalysisConfig
	LogLevel string
}

// DatabaseConfig holds database connection settings. An empty URL keeps
// results in memory.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether a result store is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// AnalysisConfig holds defaults for estimation and significance
type AnalysisConfig struct {
	Permutations  int
	PAdjust       string
	Workers       int
	Seed          int64
	DefaultBreaks int
	MaxCells      int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Server:   *loadServerConfig(),
		Analysis: *loadAnalysisConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("SERVER_PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		Permutations:  getEnvIntOrDefault("ZEBU_PERMUTATIONS", 1000),
		PAdjust:       getEnvOrDefault("ZEBU_P_ADJUST", string(analysis.AdjustBH)),
		Workers:       getEnvIntOrDefault("ZEBU_WORKERS", runtime.GOMAXPROCS(0)),
		Seed:          int64(getEnvIntOrDefault("ZEBU_SEED", 42)),
		DefaultBreaks: getEnvIntOrDefault("ZEBU_DEFAULT_BREAKS", 4),
		MaxCells:      getEnvIntOrDefault("ZEBU_MAX_CELLS", 1_000_000),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Analysis.Permutations < 1 {
		return errors.ConfigInvalid("ZEBU_PERMUTATIONS must be at least 1")
	}
	if _, err := analysis.ParseAdjustMethod(config.Analysis.PAdjust); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if config.Analysis.Workers < 1 {
		return errors.ConfigInvalid("ZEBU_WORKERS must be at least 1")
	}
	if config.Analysis.DefaultBreaks < 2 {
		return errors.ConfigInvalid("ZEBU_DEFAULT_BREAKS must be at least 2")
	}
	if config.Analysis.MaxCells < 0 {
		return errors.ConfigInvalid("ZEBU_MAX_CELLS must not be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
