package config

import (
	"os"
	"path/filepath"
	"testing"

	"hypolab/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GIN_MODE", "DATA_FILE", "DATA_COLUMN", "DATA_SHEET", "DEFAULT_ALPHA", "CURVE_POINTS", "MAX_BATCH_SIZE", "MAX_CURVE_POINTS", "MAX_TRIALS", "SIMULATION_SEED", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_FILE", "InternetMobileTime.csv")
	t.Setenv("DATA_COLUMN", "Minutes")
	t.Setenv("DEFAULT_ALPHA", "0.01")
	t.Setenv("CURVE_POINTS", "500")
	t.Setenv("SIMULATION_SEED", "7")
	t.Setenv("MAX_CURVE_POINTS", "800")
	t.Setenv("MAX_TRIALS", "5000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "InternetMobileTime.csv", cfg.Data.File)
	assert.Equal(t, "Minutes", cfg.Data.Column)
	assert.InDelta(t, 0.01, cfg.Inference.DefaultAlpha, 1e-12)
	assert.Equal(t, 500, cfg.Inference.CurvePoints)
	assert.Equal(t, uint64(7), cfg.Simulation.Seed)
	assert.Equal(t, 800, cfg.Inference.MaxCurvePoints)
	assert.Equal(t, 5000, cfg.Inference.MaxTrials)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tt := []struct {
		name string
		key  string
		val  string
	}{
		{"alpha too large", "DEFAULT_ALPHA", "1.5"},
		{"alpha zero", "DEFAULT_ALPHA", "0"},
		{"alpha not numeric", "DEFAULT_ALPHA", "five percent"},
		{"port", "PORT", "http"},
		{"curve points", "CURVE_POINTS", "1"},
		{"curve points above limit", "MAX_CURVE_POINTS", "10"},
		{"trials limit", "MAX_TRIALS", "0"},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("HYPOLAB_TEST_VALUE=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("HYPOLAB_TEST_VALUE") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("HYPOLAB_TEST_VALUE"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
