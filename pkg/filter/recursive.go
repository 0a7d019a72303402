// Package filter implements the exponential family of recursive smoothers
// behind one shape:
//
//	out[t] = alpha*in[t] + (1-alpha)*out[t-1]
//
// EMA, Wilder's RMA and every fixed-alpha, half-life or time-constant
// smoother differ only in how alpha and the warm-up length are derived and
// in how the recursion is seeded.
package filter

import (
	"fmt"
	"math"

	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// Recursive is a seeded exponential smoother. Update is O(1). A Recursive
// is owned by a single stream and is not safe for concurrent use.
type Recursive struct {
	alpha  float64
	length int // decay length W
	seed   SeedMode

	value  float64
	seeded bool
	count  int     // valid samples consumed
	sum    float64 // rolling-mean seed accumulator
}

// New creates a filter with an explicit alpha in (0,1] and decay length.
func New(alpha float64, length int, seed SeedMode) (*Recursive, error) {
	if !numeric.IsValid(alpha) || alpha <= 0 || alpha > 1 {
		return nil, fmt.Errorf("%w: alpha must be in (0,1], got %v", numeric.ErrInvalidAlpha, alpha)
	}
	if length < 1 {
		return nil, fmt.Errorf("%w: decay length must be at least 1, got %d", numeric.ErrInvalidPeriod, length)
	}
	if !seed.Valid() {
		return nil, fmt.Errorf("%w: %d", numeric.ErrInvalidSeedMode, int(seed))
	}
	return &Recursive{alpha: alpha, length: length, seed: seed}, nil
}

// NewEMA creates the classic exponential moving average, alpha = 2/(P+1).
func NewEMA(period int, seed SeedMode) (*Recursive, error) {
	if period < 1 {
		return nil, fmt.Errorf("%w: EMA period must be at least 1, got %d", numeric.ErrInvalidPeriod, period)
	}
	return New(2.0/float64(period+1), period, seed)
}

// NewRMA creates Wilder's smoothing, alpha = 1/P.
func NewRMA(period int, seed SeedMode) (*Recursive, error) {
	if period < 1 {
		return nil, fmt.Errorf("%w: RMA period must be at least 1, got %d", numeric.ErrInvalidPeriod, period)
	}
	return New(1.0/float64(period), period, seed)
}

// NewFixedAlpha derives the decay length from the EMA-equivalent span
// 2/alpha - 1.
func NewFixedAlpha(alpha float64, seed SeedMode) (*Recursive, error) {
	if !numeric.IsValid(alpha) || alpha <= 0 || alpha > 1 {
		return nil, fmt.Errorf("%w: alpha must be in (0,1], got %v", numeric.ErrInvalidAlpha, alpha)
	}
	return New(alpha, ceilLength(2/alpha-1), seed)
}

// NewHalfLife creates a smoother whose weights halve every halfLife
// samples: alpha = 1 - exp(-ln2/halfLife).
func NewHalfLife(halfLife float64, seed SeedMode) (*Recursive, error) {
	if !numeric.IsValid(halfLife) || halfLife <= 0 {
		return nil, fmt.Errorf("%w: half-life must be positive, got %v", numeric.ErrInvalidFactor, halfLife)
	}
	return New(1-math.Exp(-math.Ln2/halfLife), ceilLength(halfLife), seed)
}

// NewTimeConstant creates a smoother with time constant tau:
// alpha = 1 - exp(-1/tau).
func NewTimeConstant(tau float64, seed SeedMode) (*Recursive, error) {
	if !numeric.IsValid(tau) || tau <= 0 {
		return nil, fmt.Errorf("%w: time constant must be positive, got %v", numeric.ErrInvalidFactor, tau)
	}
	return New(1-math.Exp(-1/tau), ceilLength(tau), seed)
}

// Update consumes one sample. An invalid sample yields the sentinel and
// leaves the state, including the seed accumulator, untouched. A recursion
// that overflows yields the sentinel and restarts its warm-up.
func (r *Recursive) Update(x float64) (float64, bool) {
	if !numeric.IsValid(x) {
		return numeric.Sentinel(), false
	}
	r.count++

	switch r.seed {
	case SeedRollingMean:
		if !r.seeded {
			r.sum += x
			if r.count < r.length {
				return numeric.Sentinel(), false
			}
			r.value = r.sum / float64(r.length)
			r.seeded = true
			return r.emit()
		}
	case SeedZero:
		if !r.seeded {
			r.value = 0
			r.seeded = true
		}
	default: // SeedFirstSample, SeedDeferred
		if !r.seeded {
			r.value = x
			r.seeded = true
			return r.emit()
		}
	}

	r.value = r.alpha*x + (1-r.alpha)*r.value
	return r.emit()
}

func (r *Recursive) emit() (float64, bool) {
	if !numeric.IsValid(r.value) {
		r.Reset()
		return numeric.Sentinel(), false
	}
	if r.count < r.Warmup() {
		return numeric.Sentinel(), false
	}
	return r.value, true
}

// Value returns the last valid output, or the sentinel during warm-up.
func (r *Recursive) Value() float64 {
	if !r.IsReady() {
		return numeric.Sentinel()
	}
	return r.value
}

// IsReady reports whether the warm-up has elapsed.
func (r *Recursive) IsReady() bool {
	return r.count >= r.Warmup()
}

// Warmup is the number of valid samples before the first valid output.
func (r *Recursive) Warmup() int {
	return WarmupFor(r.seed, r.length)
}

// BarsRemaining is the number of valid samples still needed.
func (r *Recursive) BarsRemaining() int {
	if n := r.Warmup() - r.count; n > 0 {
		return n
	}
	return 0
}

// Alpha returns the smoothing coefficient.
func (r *Recursive) Alpha() float64 { return r.alpha }

// Length returns the decay length W.
func (r *Recursive) Length() int { return r.length }

// SeedMode returns the seed mode chosen at construction.
func (r *Recursive) SeedMode() SeedMode { return r.seed }

// Reset restores the just-constructed state.
func (r *Recursive) Reset() {
	r.value = 0
	r.seeded = false
	r.count = 0
	r.sum = 0
}

// Clone returns an independent deep copy.
func (r *Recursive) Clone() *Recursive {
	c := *r
	return &c
}

// ceilLength rounds a decay parameter up to a whole sample count, ignoring
// representation noise such as 7.000000000000001.
func ceilLength(x float64) int {
	n := int(math.Ceil(x - 1e-9))
	if n < 1 {
		return 1
	}
	return n
}
