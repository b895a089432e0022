package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.Retention)
	assert.Equal(t, float64(100), cfg.UpdateRate)
	assert.Equal(t, 200, cfg.UpdateBurst)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("EXECUTION_RETENTION", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.Retention)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("EXECUTION_RETENTION", "not-a-duration")

	_, err := Load()
	assert.Error(t, err)
}
