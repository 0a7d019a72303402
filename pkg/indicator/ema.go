package indicator

import (
	"fmt"

	"github.com/mohamedkhairy/ta-engine/pkg/filter"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/mohamedkhairy/ta-engine/pkg/series"
)

// NewEMA creates the Exponential Moving Average
// EMA = alpha*Price + (1-alpha)*Previous EMA, alpha = 2 / (Period + 1)
func NewEMA(period int, source Source, seed filter.SeedMode) (*Single, error) {
	f, err := filter.NewEMA(period, seed)
	if err != nil {
		return nil, err
	}
	return newSingle(withSeed(formatName("ema", source, period), seed), source, f), nil
}

// NewRMA creates Wilder's moving average, alpha = 1 / Period.
func NewRMA(period int, source Source, seed filter.SeedMode) (*Single, error) {
	f, err := filter.NewRMA(period, seed)
	if err != nil {
		return nil, err
	}
	return newSingle(withSeed(formatName("rma", source, period), seed), source, f), nil
}

// emaChain returns n EMA stages of the same period.
func emaChain(n, period int, seed filter.SeedMode) ([]series.Stage, error) {
	stages := make([]series.Stage, n)
	for i := range stages {
		f, err := filter.NewEMA(period, seed)
		if err != nil {
			return nil, err
		}
		stages[i] = f
	}
	return stages, nil
}

func newCascadeSingle(name string, source Source, stages []series.Stage, coeffs []float64) (*Single, error) {
	c, err := NewCascade(stages, coeffs)
	if err != nil {
		return nil, err
	}
	return newSingle(name, source, c), nil
}

// NewDEMA creates the double exponential moving average
// DEMA = 2*EMA - EMA(EMA)
func NewDEMA(period int, source Source, seed filter.SeedMode) (*Single, error) {
	stages, err := emaChain(2, period, seed)
	if err != nil {
		return nil, err
	}
	return newCascadeSingle(withSeed(formatName("dema", source, period), seed), source, stages, []float64{2, -1})
}

// NewTEMA creates the triple exponential moving average
// TEMA = 3*EMA - 3*EMA(EMA) + EMA(EMA(EMA))
func NewTEMA(period int, source Source, seed filter.SeedMode) (*Single, error) {
	stages, err := emaChain(3, period, seed)
	if err != nil {
		return nil, err
	}
	return newCascadeSingle(withSeed(formatName("tema", source, period), seed), source, stages, []float64{3, -3, 1})
}

// NewT3 creates Tillson's T3: six chained EMAs whose last four outputs are
// combined with weights derived from the volume factor v in [0,1].
func NewT3(period int, v float64, source Source, seed filter.SeedMode) (*Single, error) {
	if !numeric.IsValid(v) || v < 0 || v > 1 {
		return nil, fmt.Errorf("%w: T3 volume factor must be in [0,1], got %v", numeric.ErrInvalidFactor, v)
	}
	stages, err := emaChain(6, period, seed)
	if err != nil {
		return nil, err
	}
	return newCascadeSingle(withSeed(formatName("t3", source, period, v), seed), source, stages, T3Coefficients(v))
}

// T3Coefficients returns the weights of the six cascade stages for volume
// factor v. Only the last four are non-zero.
func T3Coefficients(v float64) []float64 {
	v2 := v * v
	v3 := v2 * v
	c1 := -v3
	c2 := 3*v2 + 3*v3
	c3 := -6*v2 - 3*v - 3*v3
	c4 := 1 + 3*v + v3 + 3*v2
	return []float64{0, 0, c4, c3, c2, c1}
}

// NewTRIX creates the one-bar percentage rate of change of a triple
// smoothed EMA.
func NewTRIX(period int, source Source, seed filter.SeedMode) (*Single, error) {
	stages, err := emaChain(3, period, seed)
	if err != nil {
		return nil, err
	}
	roc, err := NewChange(1)
	if err != nil {
		return nil, err
	}
	stages = append(stages, roc)
	return newCascadeSingle(withSeed(formatName("trix", source, period), seed), source, stages, []float64{0, 0, 0, 1})
}
