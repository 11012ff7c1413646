package config

import (
	"os"
	"strconv"
	"strings"

	"hypolab/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Data       DataConfig
	Inference  InferenceConfig
	Simulation SimulationConfig
	Log        LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig points at the optional static sample file
type DataConfig struct {
	File   string
	Column string
	Sheet  string
}

// InferenceConfig holds defaults applied when a request leaves them out
type InferenceConfig struct {
	DefaultAlpha float64
	CurvePoints  int
	MaxBatchSize int
	// Upper bounds on request-controlled sizes
	MaxCurvePoints int
	MaxTrials      int
}

// SimulationConfig holds settings for illustrative random sampling
type SimulationConfig struct {
	Seed uint64
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// LoadDotEnv reads .env files into the process environment when present.
// A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return errors.Wrap(err, "failed to read .env file")
	}
	return nil
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:     *loadServerConfig(),
		Data:       *loadDataConfig(),
		Log:        LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
		Simulation: SimulationConfig{Seed: uint64(getEnvIntOrDefault("SIMULATION_SEED", 42))},
	}

	inference, err := loadInferenceConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load inference configuration")
	}
	config.Inference = *inference

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server:     ServerConfig{Port: "8080", GinMode: "release"},
		Data:       DataConfig{Sheet: "Sheet1"},
		Inference:  InferenceConfig{DefaultAlpha: 0.05, CurvePoints: 200, MaxBatchSize: 256, MaxCurvePoints: 5000, MaxTrials: 100000},
		Simulation: SimulationConfig{Seed: 42},
		Log:        LogConfig{Level: "INFO"},
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:   getEnvOrDefault("DATA_FILE", ""),
		Column: getEnvOrDefault("DATA_COLUMN", ""),
		Sheet:  getEnvOrDefault("DATA_SHEET", "Sheet1"),
	}
}

func loadInferenceConfig() (*InferenceConfig, error) {
	alpha := 0.05
	if raw := os.Getenv("DEFAULT_ALPHA"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("DEFAULT_ALPHA must be a number")
		}
		alpha = parsed
	}

	return &InferenceConfig{
		DefaultAlpha: alpha,
		CurvePoints:  getEnvIntOrDefault("CURVE_POINTS", 200),
		MaxBatchSize: getEnvIntOrDefault("MAX_BATCH_SIZE", 256),

		MaxCurvePoints: getEnvIntOrDefault("MAX_CURVE_POINTS", 5000),
		MaxTrials:      getEnvIntOrDefault("MAX_TRIALS", 100000),
	}, nil
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if config.Inference.DefaultAlpha <= 0 || config.Inference.DefaultAlpha >= 1 {
		return errors.ConfigInvalid("DEFAULT_ALPHA must be strictly between 0 and 1")
	}
	if config.Inference.CurvePoints < 2 {
		return errors.ConfigInvalid("CURVE_POINTS must be at least 2")
	}
	if config.Inference.MaxCurvePoints < config.Inference.CurvePoints {
		return errors.ConfigInvalid("MAX_CURVE_POINTS must be at least CURVE_POINTS")
	}
	if config.Inference.MaxTrials < 1 {
		return errors.ConfigInvalid("MAX_TRIALS must be positive")
	}
	if config.Inference.MaxBatchSize < 1 {
		return errors.ConfigInvalid("MAX_BATCH_SIZE must be positive")
	}
	if config.Data.Column != "" && config.Data.File == "" {
		return errors.ConfigInvalid("DATA_COLUMN requires DATA_FILE")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
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
