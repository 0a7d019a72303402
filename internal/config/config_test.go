package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/ta-engine/internal/indicator"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "LOG_LEVEL", "INDICATOR_SET_FILE", "METRICS_TEXTFILE",
		"PARITY_TOLERANCE", "PARITY_SERIES_LENGTH", "PARITY_SEED", "PARITY_CROSS_CHECK",
		"PARITY_CROSS_CHECK_TOLERANCE", "PARITY_TIMEOUT", "ENGINE_MAX_CONTEXTS", "BARS_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.IndicatorSetFile)
	assert.Equal(t, 1e-10, cfg.Parity.Tolerance)
	assert.Equal(t, 500, cfg.Parity.SeriesLength)
	assert.Equal(t, int64(42), cfg.Parity.Seed)
	assert.True(t, cfg.Parity.CrossCheck)
	assert.Equal(t, 1e-9, cfg.Parity.CrossCheckTolerance)
	assert.Equal(t, 5*time.Minute, cfg.Parity.Timeout)
	assert.Equal(t, 1000, cfg.Engine.MaxContexts)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PARITY_TOLERANCE", "1e-8")
	t.Setenv("PARITY_SERIES_LENGTH", "250")
	t.Setenv("PARITY_SEED", "7")
	t.Setenv("PARITY_CROSS_CHECK", "false")
	t.Setenv("PARITY_TIMEOUT", "30s")
	t.Setenv("ENGINE_MAX_CONTEXTS", "5")
	t.Setenv("BARS_FILE", "bars.jsonl")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 1e-8, cfg.Parity.Tolerance)
	assert.Equal(t, 250, cfg.Parity.SeriesLength)
	assert.Equal(t, int64(7), cfg.Parity.Seed)
	assert.False(t, cfg.Parity.CrossCheck)
	assert.Equal(t, 30*time.Second, cfg.Parity.Timeout)
	assert.Equal(t, 5, cfg.Engine.MaxContexts)
	assert.Equal(t, "bars.jsonl", cfg.Engine.BarsFile)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("PARITY_TOLERANCE", "tight")
	t.Setenv("PARITY_SERIES_LENGTH", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1e-10, cfg.Parity.Tolerance)
	assert.Equal(t, 500, cfg.Parity.SeriesLength)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Parity: ParityConfig{Tolerance: 1e-10, SeriesLength: 500, CrossCheckTolerance: 1e-9, Timeout: time.Minute},
			Engine: EngineConfig{MaxContexts: 10},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative tolerance", func(c *Config) { c.Parity.Tolerance = -1 }},
		{"negative cross tolerance", func(c *Config) { c.Parity.CrossCheckTolerance = -1 }},
		{"short series", func(c *Config) { c.Parity.SeriesLength = 1 }},
		{"no timeout", func(c *Config) { c.Parity.Timeout = 0 }},
		{"no contexts", func(c *Config) { c.Engine.MaxContexts = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadIndicatorSet_Default(t *testing.T) {
	specs, err := LoadIndicatorSet("")
	require.NoError(t, err)
	assert.Equal(t, indicator.DefaultSpecs(), specs)
}

func TestLoadIndicatorSet_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indicators.yaml")
	data := `indicators:
  - type: sma
    period: 20
  - type: macd
    fast: 12
    slow: 26
    signal: 9
  - type: bollinger
    period: 20
    multiplier: 2.5
    ma: ema
    source: hlc3
  - type: linreg
    period: 14
    output: slope
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	specs, err := LoadIndicatorSet(path)
	require.NoError(t, err)
	assert.Equal(t, []indicator.Spec{
		{Type: "sma", Period: 20},
		{Type: "macd", Fast: 12, Slow: 26, Signal: 9},
		{Type: "bollinger", Period: 20, Multiplier: 2.5, MA: "ema", Source: "hlc3"},
		{Type: "linreg", Period: 14, Output: "slope"},
	}, specs)

	registry := indicator.NewIndicatorRegistry()
	require.NoError(t, indicator.RegisterSpecs(registry, specs))
	assert.Equal(t, 4, registry.Len())
}

func TestLoadIndicatorSet_Errors(t *testing.T) {
	_, err := LoadIndicatorSet(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseIndicatorSet([]byte("indicators: ["))
	assert.Error(t, err)

	_, err = ParseIndicatorSet([]byte("indicators: []"))
	assert.Error(t, err)

	_, err = ParseIndicatorSet([]byte("indicators:\n  - period: 3\n"))
	assert.Error(t, err)
}
