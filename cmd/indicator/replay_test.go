package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/ta-engine/internal/conformance"
	"github.com/mohamedkhairy/ta-engine/internal/indicator"
	"github.com/mohamedkhairy/ta-engine/internal/models"
)

func writeBars(t *testing.T, bars []*models.Bar) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.jsonl")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, bar := range bars {
		require.NoError(t, enc.Encode(map[string]any{
			"symbol":    bar.Symbol,
			"timeframe": bar.Timeframe,
			"timestamp": bar.Timestamp,
			"open":      bar.Open,
			"high":      bar.High,
			"low":       bar.Low,
			"close":     bar.Close,
			"volume":    bar.Volume,
		}))
	}
	return path
}

func newEngine(t *testing.T, specs []indicator.Spec) *indicator.Engine {
	t.Helper()
	registry := indicator.NewIndicatorRegistry()
	require.NoError(t, indicator.RegisterSpecs(registry, specs))
	return indicator.NewEngine(indicator.DefaultEngineConfig(), registry)
}

func TestReplayBars(t *testing.T) {
	bars := conformance.Synthetic(120, 5)
	path := writeBars(t, bars)
	engine := newEngine(t, indicator.DefaultSpecs())

	require.NoError(t, replayBars(context.Background(), path, engine, 1e-10))
	assert.Equal(t, 1, engine.ContextCount())

	state, ok := engine.Context(models.ContextKey{Symbol: "SYN", Timeframe: "1m"})
	require.True(t, ok)
	assert.Equal(t, 120, state.Bars())
}

func TestReplayBars_MissingFile(t *testing.T) {
	engine := newEngine(t, []indicator.Spec{{Type: indicator.TypeSMA, Period: 3}})
	err := replayBars(context.Background(), filepath.Join(t.TempDir(), "none.jsonl"), engine, 1e-10)
	assert.Error(t, err)
}
