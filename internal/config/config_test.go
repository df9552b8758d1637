package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chocobox/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "MAX_CONCURRENT_RUNS", "SIM_DEFAULT_CHOCOLATES", "SIM_DEFAULT_ITERATIONS",
		"SIM_STARTUP_CHOCOLATES", "SIM_STARTUP_ITERATIONS", "SIM_MAX_CHOCOLATES", "SIM_MAX_ITERATIONS",
		"SIM_SEED", "PPROF_PORT", "PPROF_ENABLED", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, 4, cfg.Server.MaxConcurrentRuns)
	assert.Equal(t, 5, cfg.Simulation.DefaultChocolates)
	assert.Equal(t, 5, cfg.Simulation.DefaultIterations)
	assert.Equal(t, 100, cfg.Simulation.StartupChocolates)
	assert.Equal(t, 100, cfg.Simulation.StartupIterations)
	assert.Equal(t, 1000, cfg.Simulation.MaxChocolates)
	assert.Equal(t, 1000, cfg.Simulation.MaxIterations)
	assert.Zero(t, cfg.Simulation.Seed)
	assert.False(t, cfg.Profiling.Enabled)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("SIM_MAX_CHOCOLATES", "50")
	t.Setenv("SIM_DEFAULT_CHOCOLATES", "10")
	t.Setenv("SIM_STARTUP_CHOCOLATES", "50")
	t.Setenv("SIM_SEED", "12345")
	t.Setenv("PPROF_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, 50, cfg.Simulation.MaxChocolates)
	assert.Equal(t, 10, cfg.Simulation.DefaultChocolates)
	assert.Equal(t, uint64(12345), cfg.Simulation.Seed)
	assert.True(t, cfg.Profiling.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad seed", map[string]string{"SIM_SEED": "-4"}},
		{"default above max", map[string]string{"SIM_MAX_ITERATIONS": "10", "SIM_DEFAULT_ITERATIONS": "11"}},
		{"startup above max", map[string]string{"SIM_MAX_CHOCOLATES": "10", "SIM_DEFAULT_CHOCOLATES": "5"}},
		{"zero concurrency", map[string]string{"MAX_CONCURRENT_RUNS": "0"}},
		{"unknown gin mode", map[string]string{"GIN_MODE": "fast"}},
		{"pprof on server port", map[string]string{"PPROF_ENABLED": "true", "PPROF_PORT": "8080", "PORT": "8080"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
