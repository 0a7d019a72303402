package indicator

import (
	"errors"
	"testing"

	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFactory_DefaultSpecs(t *testing.T) {
	seen := make(map[string]bool)
	for _, spec := range DefaultSpecs() {
		factory, err := BuildFactory(spec)
		require.NoError(t, err, spec.Type)

		calc, err := factory()
		require.NoError(t, err, spec.Type)
		assert.False(t, seen[calc.Name()], "duplicate name %s", calc.Name())
		seen[calc.Name()] = true
		assert.NotEmpty(t, spec.Category(), spec.Type)
	}
}

func TestBuildFactory_Names(t *testing.T) {
	tests := []struct {
		spec Spec
		name string
	}{
		{Spec{Type: TypeSMA, Period: 20}, "sma_20"},
		{Spec{Type: TypeEMA, Period: 12, Source: "hl2"}, "ema_12_hl2"},
		{Spec{Type: TypeMACD, Fast: 12, Slow: 26, Signal: 9}, "macd_12_26_9"},
		{Spec{Type: TypeStochastic, Period: 14, Smooth: 3, Signal: 3}, "stoch_14_3_3"},
		{Spec{Type: TypeLinReg, Period: 14, Output: "slope"}, "linreg_slope_14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, err := BuildFactory(tt.spec)
			require.NoError(t, err)
			calc, err := factory()
			require.NoError(t, err)
			assert.Equal(t, tt.name, calc.Name())
		})
	}
}

func TestBuildFactory_FreshInstances(t *testing.T) {
	factory, err := BuildFactory(Spec{Type: TypeSMA, Period: 2})
	require.NoError(t, err)

	a, _ := factory()
	b, _ := factory()
	a.Update(testBar(0, 10))
	a.Update(testBar(1, 12))
	assert.True(t, a.IsReady())
	assert.False(t, b.IsReady())
}

func TestBuildFactory_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		err  error
	}{
		{"unknown type", Spec{Type: "ichimoku"}, numeric.ErrInvalidKind},
		{"zero period", Spec{Type: TypeSMA}, numeric.ErrInvalidPeriod},
		{"bad source", Spec{Type: TypeSMA, Period: 5, Source: "vwap"}, numeric.ErrInvalidKind},
		{"bad seed", Spec{Type: TypeEMA, Period: 5, Seed: "random"}, numeric.ErrInvalidSeedMode},
		{"bad ma", Spec{Type: TypeBollinger, Period: 20, Multiplier: 2, MA: "hull"}, numeric.ErrInvalidKind},
		{"bad output", Spec{Type: TypeLinReg, Period: 14, Output: "residual"}, numeric.ErrInvalidKind},
		{"fast above slow", Spec{Type: TypeMACD, Fast: 26, Slow: 12, Signal: 9}, numeric.ErrInvalidPeriod},
		{"zero multiplier", Spec{Type: TypeBollinger, Period: 20}, numeric.ErrInvalidMultiplier},
		{"volume factor", Spec{Type: TypeT3, Period: 5, VFactor: 1.5}, numeric.ErrInvalidFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildFactory(tt.spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
		})
	}
}
