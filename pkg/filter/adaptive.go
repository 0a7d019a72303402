package filter

import "github.com/mohamedkhairy/ta-engine/pkg/numeric"

// Adaptive applies the recursive update with a coefficient supplied on
// every step, for filters whose alpha is derived from the data (efficiency
// ratio, volatility). The caller owns warm-up bookkeeping and seeding.
type Adaptive struct {
	value  float64
	seeded bool
}

// Seed sets the state directly. Invalid seeds are ignored.
func (a *Adaptive) Seed(v float64) {
	if !numeric.IsValid(v) {
		return
	}
	a.value = v
	a.seeded = true
}

// Seeded reports whether the filter has a state to recurse from.
func (a *Adaptive) Seeded() bool { return a.seeded }

// Step applies out = alpha*x + (1-alpha)*out. An invalid sample, an alpha
// outside [0,1] or a missing seed yields the sentinel and leaves the state
// untouched.
func (a *Adaptive) Step(x, alpha float64) float64 {
	if !a.seeded || !numeric.AllValid(x, alpha) || alpha < 0 || alpha > 1 {
		return numeric.Sentinel()
	}
	a.value = alpha*x + (1-alpha)*a.value
	return a.value
}

// Hold returns the previous state unchanged.
func (a *Adaptive) Hold() float64 {
	if !a.seeded {
		return numeric.Sentinel()
	}
	return a.value
}

// Reset clears the state.
func (a *Adaptive) Reset() {
	a.value = 0
	a.seeded = false
}

// Clone returns an independent copy.
func (a *Adaptive) Clone() *Adaptive {
	c := *a
	return &c
}
