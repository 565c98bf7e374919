package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "live-lines-finder", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.InDelta(t, 0.075, cfg.Analysis.PGap, 1e-9)
	assert.InDelta(t, 0.10, cfg.Analysis.EVThreshold, 1e-9)
	assert.InDelta(t, 0.01, cfg.Analysis.ArbThreshold, 1e-9)
	assert.InDelta(t, 0.05, cfg.Analysis.AssumedSingleSidedVig, 1e-9)
	assert.False(t, cfg.Analysis.Bootstrap)
	assert.Equal(t, 100, cfg.Analysis.BootstrapIterations)
	assert.Equal(t, 60, cfg.Cache.TTLSeconds)

	require.NoError(t, Validate(cfg))
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: live-lines-finder
  environment: staging
  log_level: warn
analysis:
  p_gap: 0.05
  ev_threshold: 0.08
  arb_threshold: 0.02
  assumed_single_sided_vig: 0.04
  bootstrap: true
  bootstrap_iterations: 200
  bootstrap_confidence: 0.9
  workers: 8
cache:
  ttl_seconds: 30
  max_events: 256
metrics:
  enabled: false
  port: 9191
  path: /metrics
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.InDelta(t, 0.05, cfg.Analysis.PGap, 1e-9)
	assert.True(t, cfg.Analysis.Bootstrap)
	assert.Equal(t, 200, cfg.Analysis.BootstrapIterations)
	assert.Equal(t, 8, cfg.Analysis.Workers)
	assert.Equal(t, 9191, cfg.Metrics.Port)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadExpandsEnvironmentPlaceholders(t *testing.T) {
	t.Setenv("LINE_FINDER_TEST_LOG_LEVEL", "error")
	path := writeConfigFile(t, `
app:
  name: live-lines-finder
  environment: production
  log_level: ${LINE_FINDER_TEST_LOG_LEVEL}
analysis:
  p_gap: 0.075
  ev_threshold: 0.1
  bootstrap_iterations: 100
  bootstrap_confidence: 0.95
  workers: 4
cache:
  ttl_seconds: 60
  max_events: 1024
metrics:
  enabled: true
  port: 9090
  path: /metrics
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.App.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	cfg.App.LogLevel = "verbose"
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")

	cfg.App.LogLevel = "info"
	cfg.App.Environment = "qa"
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Environment")
}

func TestValidateCrossField(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	cfg.Analysis.Bootstrap = true
	cfg.Analysis.BootstrapIterations = 5
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bootstrap_iterations")

	cfg.Analysis.BootstrapIterations = 100
	cfg.App.Environment = "production"
	cfg.App.LogLevel = "debug"
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debug logging")
}
