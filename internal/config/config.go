package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mohamedkhairy/ta-engine/internal/indicator"
)

// Config holds all configuration for the application
type Config struct {
	// Common
	Environment string
	LogLevel    string

	// IndicatorSetFile is a YAML file listing the indicators to build.
	// Empty selects the built-in default set.
	IndicatorSetFile string

	// MetricsTextfile is where the Prometheus text dump is written. Empty
	// disables the dump.
	MetricsTextfile string

	Parity ParityConfig
	Engine EngineConfig
}

// ParityConfig holds conformance harness configuration
type ParityConfig struct {
	Tolerance           float64 // batch/stream agreement, relative
	SeriesLength        int     // synthetic bars per run
	Seed                int64
	CrossCheck          bool // compare against reference libraries
	CrossCheckTolerance float64
	Timeout             time.Duration
}

// EngineConfig holds streaming engine configuration
type EngineConfig struct {
	MaxContexts int
	// BarsFile is an optional JSON-lines bar file replayed through the
	// engine after the harness run.
	BarsFile string
}

// IndicatorSet is the layout of the indicator-set file.
type IndicatorSet struct {
	Indicators []indicator.Spec `yaml:"indicators"`
}

// Load loads configuration from environment variables
// It automatically loads .env file if it exists in the current directory
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		IndicatorSetFile: getEnv("INDICATOR_SET_FILE", ""),
		MetricsTextfile:  getEnv("METRICS_TEXTFILE", ""),
		Parity: ParityConfig{
			Tolerance:           getEnvAsFloat("PARITY_TOLERANCE", 1e-10),
			SeriesLength:        getEnvAsInt("PARITY_SERIES_LENGTH", 500),
			Seed:                int64(getEnvAsInt("PARITY_SEED", 42)),
			CrossCheck:          getEnvAsBool("PARITY_CROSS_CHECK", true),
			CrossCheckTolerance: getEnvAsFloat("PARITY_CROSS_CHECK_TOLERANCE", 1e-9),
			Timeout:             getEnvAsDuration("PARITY_TIMEOUT", 5*time.Minute),
		},
		Engine: EngineConfig{
			MaxContexts: getEnvAsInt("ENGINE_MAX_CONTEXTS", 1000),
			BarsFile:    getEnv("BARS_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !(c.Parity.Tolerance >= 0) {
		return fmt.Errorf("PARITY_TOLERANCE must be non-negative")
	}
	if !(c.Parity.CrossCheckTolerance >= 0) {
		return fmt.Errorf("PARITY_CROSS_CHECK_TOLERANCE must be non-negative")
	}
	if c.Parity.SeriesLength < 2 {
		return fmt.Errorf("PARITY_SERIES_LENGTH must be at least 2")
	}
	if c.Parity.Timeout <= 0 {
		return fmt.Errorf("PARITY_TIMEOUT must be positive")
	}
	if c.Engine.MaxContexts <= 0 {
		return fmt.Errorf("ENGINE_MAX_CONTEXTS must be positive")
	}
	return nil
}

// IndicatorSpecs returns the configured indicator set.
func (c *Config) IndicatorSpecs() ([]indicator.Spec, error) {
	return LoadIndicatorSet(c.IndicatorSetFile)
}

// LoadIndicatorSet reads an indicator-set file. An empty path returns the
// default set.
func LoadIndicatorSet(path string) ([]indicator.Spec, error) {
	if path == "" {
		return indicator.DefaultSpecs(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read indicator set: %w", err)
	}
	return ParseIndicatorSet(data)
}

// ParseIndicatorSet decodes the YAML form of an indicator set.
func ParseIndicatorSet(data []byte) ([]indicator.Spec, error) {
	var set IndicatorSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse indicator set: %w", err)
	}
	if len(set.Indicators) == 0 {
		return nil, fmt.Errorf("indicator set lists no indicators")
	}
	for i, spec := range set.Indicators {
		if spec.Type == "" {
			return nil, fmt.Errorf("indicator set entry %d has no type", i)
		}
	}
	return set.Indicators, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
