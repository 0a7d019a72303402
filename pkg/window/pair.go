package window

import (
	"fmt"

	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// Covariance is the rolling covariance of two aligned streams. Either
// window holding a sentinel voids the output.
type Covariance struct {
	xs, ys *Window
	kind   numeric.VarianceKind
	corr   bool
	sx, sy []float64
}

// NewCovariance creates a rolling covariance.
func NewCovariance(period int, kind numeric.VarianceKind) (*Covariance, error) {
	return newPair(period, kind, false)
}

// NewCorrelation creates a rolling Pearson correlation. A flat window in
// either stream yields the sentinel.
func NewCorrelation(period int) (*Covariance, error) {
	return newPair(period, numeric.Population, true)
}

func newPair(period int, kind numeric.VarianceKind, corr bool) (*Covariance, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: variance kind %d", numeric.ErrInvalidKind, int(kind))
	}
	if period < 2 {
		return nil, fmt.Errorf("%w: covariance needs a period of at least 2, got %d", numeric.ErrInvalidPeriod, period)
	}
	xs, err := New(period)
	if err != nil {
		return nil, err
	}
	ys, _ := New(period)
	return &Covariance{
		xs:   xs,
		ys:   ys,
		kind: kind,
		corr: corr,
		sx:   make([]float64, 0, period),
		sy:   make([]float64, 0, period),
	}, nil
}

// Update2 consumes one aligned pair.
func (c *Covariance) Update2(x, y float64) (float64, bool) {
	c.xs.Push(x)
	c.ys.Push(y)
	if !c.xs.Valid() || !c.ys.Valid() {
		return numeric.Sentinel(), false
	}
	c.sx = c.xs.CopyTo(c.sx)
	c.sy = c.ys.CopyTo(c.sy)

	var out float64
	if c.corr {
		out, _ = numeric.Correlation(c.sx, c.sy)
	} else {
		out, _ = numeric.Covariance(c.sx, c.sy, c.kind)
	}
	return result(out)
}

func (c *Covariance) Warmup() int { return c.xs.Cap() }

func (c *Covariance) Reset() {
	c.xs.Reset()
	c.ys.Reset()
}

func (c *Covariance) Clone() *Covariance {
	return &Covariance{
		xs:   c.xs.Clone(),
		ys:   c.ys.Clone(),
		kind: c.kind,
		corr: c.corr,
		sx:   make([]float64, 0, c.xs.Cap()),
		sy:   make([]float64, 0, c.ys.Cap()),
	}
}
