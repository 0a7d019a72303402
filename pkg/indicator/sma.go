package indicator

import (
	"github.com/mohamedkhairy/ta-engine/pkg/filter"
	"github.com/mohamedkhairy/ta-engine/pkg/window"
)

// NewSMA creates the Simple Moving Average
// SMA = Sum of prices over period / period
func NewSMA(period int, source Source) (*Single, error) {
	if err := checkPeriod("SMA", period, 1); err != nil {
		return nil, err
	}
	m, err := window.NewMean(period)
	if err != nil {
		return nil, err
	}
	return newSingle(formatName("sma", source, period), source, m), nil
}

// NewWMA creates the linearly weighted moving average.
func NewWMA(period int, source Source) (*Single, error) {
	if err := checkPeriod("WMA", period, 1); err != nil {
		return nil, err
	}
	m, err := window.NewWMA(period)
	if err != nil {
		return nil, err
	}
	return newSingle(formatName("wma", source, period), source, m), nil
}

// NewMedian creates the rolling median.
func NewMedian(period int, source Source) (*Single, error) {
	if err := checkPeriod("median", period, 1); err != nil {
		return nil, err
	}
	m, err := window.NewMedian(period)
	if err != nil {
		return nil, err
	}
	return newSingle(formatName("median", source, period), source, m), nil
}

// NewLinearRegression fits a least-squares line over the last period
// values and reports one property of it (endpoint, slope, ...).
func NewLinearRegression(period int, output window.RegressionOutput, source Source) (*Single, error) {
	if err := checkPeriod("linear regression", period, 2); err != nil {
		return nil, err
	}
	r, err := window.NewRegression(period, output)
	if err != nil {
		return nil, err
	}
	prefix := "linreg"
	if output != window.Endpoint {
		prefix += "_" + output.String()
	}
	return newSingle(formatName(prefix, source, period), source, r), nil
}

// NewMovingAverage creates a moving average of the given kind.
func NewMovingAverage(kind MAKind, period int, source Source, seed filter.SeedMode) (*Single, error) {
	if err := checkPeriod(kind.String(), period, 1); err != nil {
		return nil, err
	}
	s, err := NewSmoother(kind, period, seed)
	if err != nil {
		return nil, err
	}
	return newSingle(withSeed(formatName(kind.String(), source, period), seed), source, s), nil
}
