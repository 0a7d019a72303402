package indicator

import (
	"testing"

	indicatorpkg "github.com/mohamedkhairy/ta-engine/pkg/indicator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndicatorRegistry_RegisterSpec(t *testing.T) {
	registry := NewIndicatorRegistry()

	name, err := registry.RegisterSpec(Spec{Type: TypeBollinger, Period: 20, Multiplier: 2})
	require.NoError(t, err)
	assert.Equal(t, "bollinger_20_2", name)

	meta, ok := registry.GetMetadata(name)
	require.True(t, ok)
	assert.Equal(t, TypeBollinger, meta.Type)
	assert.Equal(t, "volatility", meta.Category)
	assert.Equal(t, 20, meta.Warmup)
	assert.Equal(t, []string{indicatorpkg.OutBasis, indicatorpkg.OutUpper, indicatorpkg.OutLower, indicatorpkg.OutWidth}, meta.Outputs)

	_, err = registry.RegisterSpec(Spec{Type: TypeBollinger, Period: 20, Multiplier: 2})
	assert.Error(t, err, "same name registered twice")
}

func TestIndicatorRegistry_Metadata(t *testing.T) {
	registry := NewIndicatorRegistry()
	require.NoError(t, RegisterSpecs(registry, []Spec{
		{Type: TypeRSI, Period: 14},
		{Type: TypeATR, Period: 14},
	}))

	assert.Equal(t, []string{"atr_14", "rsi_14"}, registry.ListAvailable())
	assert.Equal(t, 2, registry.Len())

	all := registry.GetAllMetadata()
	assert.Len(t, all, 2)
	assert.Equal(t, 15, all["rsi_14"].Warmup)
	assert.Equal(t, 15, all["atr_14"].Warmup)

	_, ok := registry.GetFactory("rsi_14")
	assert.True(t, ok)
	_, err := registry.Create("missing")
	assert.Error(t, err)
}

func TestRegisterSpecs_ReportsEntry(t *testing.T) {
	registry := NewIndicatorRegistry()
	err := RegisterSpecs(registry, []Spec{
		{Type: TypeSMA, Period: 10},
		{Type: TypeSMA},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 1")
}

func TestRegisterSpecs_SeedAndKindVariants(t *testing.T) {
	registry := NewIndicatorRegistry()
	require.NoError(t, RegisterSpecs(registry, []Spec{
		{Type: TypeEMA, Period: 10},
		{Type: TypeEMA, Period: 10, Seed: "first_sample"},
		{Type: TypeEMA, Period: 10, Seed: "deferred"},
		{Type: TypeKeltner, Period: 20, Lookback: 10, Multiplier: 2, MA: "ema"},
		{Type: TypeKeltner, Period: 20, Lookback: 10, Multiplier: 2, MA: "sma"},
		{Type: TypeRangeROC, Period: 14, Lookback: 5},
		{Type: TypeRangeROC, Period: 14, Lookback: 5, MA: "ema", Seed: "zero"},
	}))

	assert.Equal(t, []string{
		"ema_10",
		"ema_10_deferred",
		"ema_10_first_sample",
		"keltner_20_10_2",
		"keltner_ema_20_10_2",
		"range_roc_14_5",
		"range_roc_ema_14_5_zero",
	}, registry.ListAvailable())

	meta, ok := registry.GetMetadata("ema_10_first_sample")
	require.True(t, ok)
	assert.Equal(t, 1, meta.Warmup)
}
