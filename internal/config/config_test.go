package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 5*time.Minute, cfg.ScanInterval)
	assert.Equal(t, 10*time.Minute, cfg.RetryDrainInterval)
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.Equal(t, 30*24*time.Hour, cfg.RecordRetention)
	assert.Equal(t, []string{"coloring", "chemical_treatment"}, cfg.PrepCategories)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("NOTIFY_SCAN_INTERVAL", "1m")
	t.Setenv("NOTIFY_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("NOTIFY_PREP_CATEGORIES", "coloring, perm ,")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Minute, cfg.ScanInterval)
	assert.Equal(t, 5, cfg.RetryMaxAttempts)
	assert.Equal(t, []string{"coloring", "perm"}, cfg.PrepCategories)
}

func TestBadValuesFallBack(t *testing.T) {
	t.Setenv("NOTIFY_RETRY_MAX_ATTEMPTS", "many")
	t.Setenv("NOTIFY_SCAN_INTERVAL", "soon")

	cfg := Load()
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.ScanInterval)
}
