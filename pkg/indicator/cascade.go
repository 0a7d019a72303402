package indicator

import (
	"fmt"

	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/mohamedkhairy/ta-engine/pkg/series"
	"github.com/mohamedkhairy/ta-engine/pkg/window"
)

// Cascade owns a chain of stages, each consuming the previous one's
// output, and combines the stage outputs linearly:
//
//	out = sum(coeffs[i] * stage_i)
//
// Stages with a zero coefficient only feed the chain. The output is valid
// once the last stage is, so the warm-up is the chain warm-up.
type Cascade struct {
	stages []series.Stage
	coeffs []float64
	outs   []float64
}

// NewCascade creates a cascade. coeffs must have one entry per stage.
func NewCascade(stages []series.Stage, coeffs []float64) (*Cascade, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: cascade needs at least one stage", numeric.ErrInvalidPeriod)
	}
	if len(coeffs) != len(stages) {
		return nil, fmt.Errorf("%w: %d coefficients for %d stages", numeric.ErrLengthMismatch, len(coeffs), len(stages))
	}
	return &Cascade{
		stages: stages,
		coeffs: append([]float64(nil), coeffs...),
		outs:   make([]float64, len(stages)),
	}, nil
}

func (c *Cascade) Update(x float64) (float64, bool) {
	ok := true
	for i, s := range c.stages {
		x, ok = s.Update(x)
		c.outs[i] = x
	}
	if !ok {
		return numeric.Sentinel(), false
	}

	var out float64
	for i, k := range c.coeffs {
		if k == 0 {
			continue
		}
		if !numeric.IsValid(c.outs[i]) {
			return numeric.Sentinel(), false
		}
		out += k * c.outs[i]
	}
	return out, true
}

func (c *Cascade) Reset() {
	for _, s := range c.stages {
		s.Reset()
	}
}

// Warmup is the sum of stage warm-ups minus the seams between them.
func (c *Cascade) Warmup() int {
	w := make([]int, len(c.stages))
	for i, s := range c.stages {
		w[i] = s.Warmup()
	}
	return series.ChainWarmup(w...)
}

// Depth is the number of chained stages.
func (c *Cascade) Depth() int { return len(c.stages) }

// Change is the percentage rate of change over n samples:
// 100 * (x - x[n ago]) / x[n ago].
type Change struct {
	lag *window.Lag
}

// NewChange creates a rate-of-change stage with lookback n >= 1.
func NewChange(n int) (*Change, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: rate of change lookback must be at least 1, got %d", numeric.ErrInvalidPeriod, n)
	}
	lag, err := window.NewLag(n)
	if err != nil {
		return nil, err
	}
	return &Change{lag: lag}, nil
}

func (c *Change) Update(x float64) (float64, bool) {
	past, ok := c.lag.Update(x)
	if !ok || !numeric.IsValid(x) {
		return numeric.Sentinel(), false
	}
	v := numeric.SafeDiv(x-past, past)
	if numeric.IsSentinel(v) {
		return v, false
	}
	return 100 * v, true
}

func (c *Change) Reset() { c.lag.Reset() }

func (c *Change) Warmup() int { return c.lag.Warmup() }

// Single feeds one bar source through one stage. Most moving averages and
// single-input statistics are a Single.
type Single struct {
	base
	source Source
	stage  series.Stage
}

func newSingle(name string, source Source, stage series.Stage) *Single {
	return &Single{
		base:   newBase(name, stage.Warmup()),
		source: source,
		stage:  stage,
	}
}

func (s *Single) Update(bar *models.Bar) (float64, bool) {
	return s.record(s.stage.Update(s.source.Of(bar)))
}

func (s *Single) Reset() {
	s.stage.Reset()
	s.resetBase()
}

// Source returns the consumed bar field.
func (s *Single) Source() Source { return s.source }
