package config

import (
	"fmt"
	"os"
	"strconv"

	"chocobox/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Simulation SimulationConfig
	Profiling  ProfilingConfig
	LogLevel   string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port              string
	GinMode           string
	MaxConcurrentRuns int
}

// SimulationConfig holds the parameter ranges offered to users
type SimulationConfig struct {
	DefaultChocolates int
	DefaultIterations int
	StartupChocolates int
	StartupIterations int
	MaxChocolates     int
	MaxIterations     int
	Seed              uint64
}

// ProfilingConfig holds pprof admin server settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	seed, err := getEnvUint64OrDefault("SIM_SEED", 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load simulation configuration")
	}

	config := &Config{
		Server: ServerConfig{
			Port:              getEnvOrDefault("PORT", "8080"),
			GinMode:           getEnvOrDefault("GIN_MODE", "debug"),
			MaxConcurrentRuns: getEnvIntOrDefault("MAX_CONCURRENT_RUNS", 4),
		},
		Simulation: SimulationConfig{
			DefaultChocolates: getEnvIntOrDefault("SIM_DEFAULT_CHOCOLATES", 5),
			DefaultIterations: getEnvIntOrDefault("SIM_DEFAULT_ITERATIONS", 5),
			StartupChocolates: getEnvIntOrDefault("SIM_STARTUP_CHOCOLATES", 100),
			StartupIterations: getEnvIntOrDefault("SIM_STARTUP_ITERATIONS", 100),
			MaxChocolates:     getEnvIntOrDefault("SIM_MAX_CHOCOLATES", 1000),
			MaxIterations:     getEnvIntOrDefault("SIM_MAX_ITERATIONS", 1000),
			Seed:              seed,
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Validate checks ranges and relationships between settings
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if c.Server.GinMode != "debug" && c.Server.GinMode != "release" && c.Server.GinMode != "test" {
		return errors.ConfigInvalid(fmt.Sprintf("GIN_MODE must be debug, release or test, got %q", c.Server.GinMode))
	}
	if c.Server.MaxConcurrentRuns < 1 {
		return errors.ConfigInvalid("MAX_CONCURRENT_RUNS must be at least 1")
	}

	sim := c.Simulation
	if sim.MaxChocolates < 1 || sim.MaxIterations < 1 {
		return errors.ConfigInvalid("SIM_MAX_CHOCOLATES and SIM_MAX_ITERATIONS must be at least 1")
	}
	if err := checkWithin("SIM_DEFAULT_CHOCOLATES", sim.DefaultChocolates, sim.MaxChocolates); err != nil {
		return err
	}
	if err := checkWithin("SIM_DEFAULT_ITERATIONS", sim.DefaultIterations, sim.MaxIterations); err != nil {
		return err
	}
	if err := checkWithin("SIM_STARTUP_CHOCOLATES", sim.StartupChocolates, sim.MaxChocolates); err != nil {
		return err
	}
	if err := checkWithin("SIM_STARTUP_ITERATIONS", sim.StartupIterations, sim.MaxIterations); err != nil {
		return err
	}

	if c.Profiling.Enabled && c.Profiling.Port == c.Server.Port {
		return errors.ConfigInvalid("PPROF_PORT must differ from PORT")
	}
	return nil
}

func checkWithin(key string, value, max int) error {
	if value < 1 || value > max {
		return errors.ConfigInvalid(fmt.Sprintf("%s must be within [1, %d], got %d", key, max, value))
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

func getEnvUint64OrDefault(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an unsigned integer, got %q", key, value))
	}
	return parsed, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
