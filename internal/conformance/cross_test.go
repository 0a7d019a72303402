package conformance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/filter"
	indicatorpkg "github.com/mohamedkhairy/ta-engine/pkg/indicator"
)

func smaFactory(period int) indicatorpkg.Factory {
	return func() (indicatorpkg.Calculator, error) {
		return indicatorpkg.NewSMA(period, indicatorpkg.Close)
	}
}

func TestCrossCheck_References(t *testing.T) {
	bars := Synthetic(300, 11)
	seed := filter.SeedRollingMean

	tests := []struct {
		name    string
		factory indicatorpkg.Factory
		ref     Reference
	}{
		{"talib sma", smaFactory(20), TalibSMA(20)},
		{"techan sma", smaFactory(20), TechanSMA(20)},
		{"talib ema", func() (indicatorpkg.Calculator, error) {
			return indicatorpkg.NewEMA(12, indicatorpkg.Close, seed)
		}, TalibEMA(12)},
		{"talib rsi", func() (indicatorpkg.Calculator, error) {
			return indicatorpkg.NewRSI(14, indicatorpkg.Close, seed)
		}, TalibRSI(14)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CrossCheck(tt.factory, tt.ref, bars, 1e-9)
			assert.True(t, res.Passed, res.Detail)
			assert.Equal(t, CheckCross, res.Check)
			assert.Equal(t, tt.ref.Name, res.Reference)
			assert.Positive(t, res.Compared)
		})
	}
}

func TestCrossCheck_Mismatch(t *testing.T) {
	bars := Synthetic(100, 3)

	res := CrossCheck(smaFactory(20), TalibSMA(10), bars, 1e-9)
	assert.False(t, res.Passed)
	assert.Greater(t, res.MaxDivergence, 1e-9)
}

func TestCrossCheck_UnknownOutput(t *testing.T) {
	bars := Synthetic(100, 3)
	ref := TalibSMA(20)
	ref.Output = "upper"

	res := CrossCheck(smaFactory(20), ref, bars, 1e-9)
	assert.False(t, res.Passed)
	assert.Contains(t, res.Detail, `no output "upper"`)
}

func TestCrossCheck_ReferenceLength(t *testing.T) {
	bars := Synthetic(100, 3)
	ref := Reference{
		Name:    "short",
		Compute: func(bars []*models.Bar) []float64 { return make([]float64, 3) },
	}

	res := CrossCheck(smaFactory(20), ref, bars, 1e-9)
	assert.False(t, res.Passed)
	assert.Contains(t, res.Detail, "3 values for 100 bars")
}

func TestCrossCheck_NothingCompared(t *testing.T) {
	res := CrossCheck(smaFactory(20), TalibSMA(20), Synthetic(10, 3), 1e-9)
	assert.False(t, res.Passed)
	assert.Zero(t, res.Compared)
}

func TestCrossCheck_FactoryError(t *testing.T) {
	res := CrossCheck(failingFactory, TalibSMA(20), Synthetic(30, 3), 1e-9)
	assert.False(t, res.Passed)
	assert.Equal(t, "talib.Sma", res.Reference)
}
