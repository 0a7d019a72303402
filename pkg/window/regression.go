package window

import (
	"fmt"
	"math"

	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// WMA is the linearly weighted moving average: the newest sample weighs
// period, the oldest weighs 1.
type WMA struct {
	win   *Window
	denom float64
}

func NewWMA(period int) (*WMA, error) {
	w, err := New(period)
	if err != nil {
		return nil, err
	}
	return &WMA{win: w, denom: float64(period*(period+1)) / 2}, nil
}

func (m *WMA) Update(x float64) (float64, bool) {
	m.win.Push(x)
	if !m.win.Valid() {
		return numeric.Sentinel(), false
	}
	var sum float64
	for i := 0; i < m.win.Len(); i++ {
		sum += float64(i+1) * m.win.At(i)
	}
	return result(sum / m.denom)
}

func (m *WMA) Warmup() int { return m.win.Cap() }

func (m *WMA) Reset() { m.win.Reset() }

func (m *WMA) Clone() *WMA { return &WMA{win: m.win.Clone(), denom: m.denom} }

// RegressionOutput selects what a rolling least-squares fit reports.
type RegressionOutput int

const (
	// Endpoint is the fitted value at the newest sample.
	Endpoint RegressionOutput = iota
	// Slope is the fitted change per sample.
	Slope
	// Intercept is the fitted value at the oldest sample.
	Intercept
	// Forecast is the fitted value one sample ahead of the newest.
	Forecast
	// Angle is the slope expressed in degrees.
	Angle
)

func (o RegressionOutput) String() string {
	switch o {
	case Endpoint:
		return "endpoint"
	case Slope:
		return "slope"
	case Intercept:
		return "intercept"
	case Forecast:
		return "forecast"
	case Angle:
		return "angle"
	default:
		return fmt.Sprintf("regression_output(%d)", int(o))
	}
}

// ParseRegressionOutput maps the String form back. Empty means Endpoint.
func ParseRegressionOutput(s string) (RegressionOutput, bool) {
	if s == "" {
		return Endpoint, true
	}
	for o := Endpoint; o <= Angle; o++ {
		if o.String() == s {
			return o, true
		}
	}
	return 0, false
}

// Regression fits y = intercept + slope*x over the window with x = 0 for
// the oldest sample.
type Regression struct {
	win    *Window
	output RegressionOutput
	sumX   float64
	denom  float64
}

// NewRegression creates a rolling least-squares fit over period >= 2
// samples.
func NewRegression(period int, output RegressionOutput) (*Regression, error) {
	if period < 2 {
		return nil, fmt.Errorf("%w: regression needs a period of at least 2, got %d", numeric.ErrInvalidPeriod, period)
	}
	if output < Endpoint || output > Angle {
		return nil, fmt.Errorf("%w: regression output %d", numeric.ErrInvalidKind, int(output))
	}
	w, err := New(period)
	if err != nil {
		return nil, err
	}
	n := float64(period)
	sumX := n * (n - 1) / 2
	sumXX := n * (n - 1) * (2*n - 1) / 6
	return &Regression{win: w, output: output, sumX: sumX, denom: n*sumXX - sumX*sumX}, nil
}

func (r *Regression) Update(y float64) (float64, bool) {
	r.win.Push(y)
	if !r.win.Valid() {
		return numeric.Sentinel(), false
	}
	n := float64(r.win.Len())
	var sumY, sumXY float64
	for i := 0; i < r.win.Len(); i++ {
		v := r.win.At(i)
		sumY += v
		sumXY += float64(i) * v
	}
	slope := (n*sumXY - r.sumX*sumY) / r.denom
	intercept := (sumY - slope*r.sumX) / n

	switch r.output {
	case Slope:
		return result(slope)
	case Intercept:
		return result(intercept)
	case Forecast:
		return result(intercept + slope*n)
	case Angle:
		return result(math.Atan(slope) * 180 / math.Pi)
	default:
		return result(intercept + slope*(n-1))
	}
}

func (r *Regression) Warmup() int { return r.win.Cap() }

func (r *Regression) Reset() { r.win.Reset() }

// Output returns the reported quantity.
func (r *Regression) Output() RegressionOutput { return r.output }

func (r *Regression) Clone() *Regression {
	c := *r
	c.win = r.win.Clone()
	return &c
}
