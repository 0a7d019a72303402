package filter

import "fmt"

// SeedMode decides the initial state of a recursive filter and, with it,
// the warm-up length. It is fixed at construction.
type SeedMode int

const (
	// SeedRollingMean uses the unweighted mean of the first W valid samples
	// as the output at sample W. This is the default: the first valid value
	// has the same bit pattern regardless of evaluation order.
	SeedRollingMean SeedMode = iota
	// SeedFirstSample starts the recursion at the first valid sample and
	// is valid immediately.
	SeedFirstSample
	// SeedZero starts the recursion from zero and is valid immediately.
	SeedZero
	// SeedDeferred runs the recursion from the first valid sample but emits
	// the sentinel until W valid samples were consumed. No seeded value is
	// ever emitted, which lines its warm-up up with a W-sample window.
	SeedDeferred
)

func (m SeedMode) String() string {
	switch m {
	case SeedRollingMean:
		return "rolling_mean"
	case SeedFirstSample:
		return "first_sample"
	case SeedZero:
		return "zero"
	case SeedDeferred:
		return "deferred"
	default:
		return fmt.Sprintf("seed_mode(%d)", int(m))
	}
}

// Valid reports whether m is a known seed mode.
func (m SeedMode) Valid() bool {
	return m >= SeedRollingMean && m <= SeedDeferred
}

// ParseSeedMode maps the String form back to a SeedMode. The empty string
// selects the default.
func ParseSeedMode(s string) (SeedMode, bool) {
	switch s {
	case "", "rolling_mean":
		return SeedRollingMean, true
	case "first_sample":
		return SeedFirstSample, true
	case "zero":
		return SeedZero, true
	case "deferred":
		return SeedDeferred, true
	}
	return 0, false
}

// WarmupFor is the number of valid samples a filter with decay length w
// needs under seed mode m before its first valid output.
func WarmupFor(m SeedMode, w int) int {
	switch m {
	case SeedFirstSample, SeedZero:
		return 1
	default:
		if w < 1 {
			return 1
		}
		return w
	}
}
