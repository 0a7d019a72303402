// Package indicator composes the filter and window primitives into named
// technical indicators that consume bars.
//
// Every indicator has exactly one algorithm: the streaming Update. Batch
// results are produced by resetting an indicator and replaying the series
// through Update, so a batch value at index t and the streamed value after
// bar t are the same computation.
package indicator

import (
	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// Calculator is the interface for computing technical indicators
// Each indicator type implements this interface
type Calculator interface {
	// Name returns the unique name of this indicator (e.g., "rsi_14", "ema_20")
	Name() string

	// Update consumes the next bar and returns the new value and whether it
	// is valid. Invalid values are the sentinel. A nil bar counts as a bar
	// whose fields are all missing.
	Update(bar *models.Bar) (float64, bool)

	// Value returns the output of the last Update, or the sentinel before
	// the first one
	Value() float64

	// IsReady reports whether the warm-up has elapsed
	IsReady() bool

	// Warmup is the number of bars consumed up to and including the first
	// valid output on clean input. It is derived from the parameters.
	Warmup() int

	// BarsRemaining is the number of bars still needed before the first
	// valid output, 0 once ready
	BarsRemaining() int

	// Reset restores the just-constructed state
	Reset()
}

// MultiOutput is implemented by indicators that publish several aligned
// series (bands, MACD, stochastic). All outputs turn valid on the same bar;
// Value reports the primary output.
type MultiOutput interface {
	Calculator

	// Outputs lists the output names, primary first
	Outputs() []string

	// Output returns the latest value of one output, the sentinel for an
	// unknown name
	Output(name string) float64
}

// base carries the bookkeeping shared by every calculator.
type base struct {
	name   string
	warmup int
	bars   int
	ready  bool
	value  float64
}

func newBase(name string, warmup int) base {
	return base{name: name, warmup: warmup, value: numeric.Sentinel()}
}

// Name returns the indicator name
func (b *base) Name() string { return b.name }

// Value returns the latest output
func (b *base) Value() float64 { return b.value }

// IsReady reports whether a valid output has been produced
func (b *base) IsReady() bool { return b.ready }

// Warmup returns the analytic warm-up length
func (b *base) Warmup() int { return b.warmup }

// BarsRemaining returns how many more bars the warm-up needs. Missing
// samples during warm-up can delay readiness past the analytic count; the
// remainder never drops below one before the first valid output.
func (b *base) BarsRemaining() int {
	if b.ready {
		return 0
	}
	if n := b.warmup - b.bars; n > 1 {
		return n
	}
	return 1
}

// record stores the outcome of one update.
func (b *base) record(v float64, ok bool) (float64, bool) {
	b.bars++
	if !ok || !numeric.IsValid(v) {
		b.value = numeric.Sentinel()
		return b.value, false
	}
	b.value = v
	b.ready = true
	return v, true
}

func (b *base) resetBase() {
	b.bars = 0
	b.ready = false
	b.value = numeric.Sentinel()
}
