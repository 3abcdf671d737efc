package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data/materials.db", cfg.DatabasePath)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, 8, cfg.MatchConcurrency)
	assert.InDelta(t, 0.85, cfg.Pipeline.ExactThreshold, 1e-9)
	assert.InDelta(t, 0.60, cfg.Pipeline.FuzzyThreshold, 1e-9)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "10")
	t.Setenv("MATCH_FUZZY_THRESHOLD", "0.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 10, cfg.MaxOpenConns)
	assert.InDelta(t, 0.5, cfg.Pipeline.FuzzyThreshold, 1e-9)
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("DB_CONN_MAX_LIFETIME", "forever")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
}

func TestValidate(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	cfg.Port = ""
	assert.Error(t, cfg.Validate())

	cfg, _ = LoadConfig()
	cfg.MaxIdleConns = cfg.MaxOpenConns + 1
	assert.Error(t, cfg.Validate())

	cfg, _ = LoadConfig()
	cfg.Pipeline.ExactThreshold = 1.5
	assert.Error(t, cfg.Validate())
}
