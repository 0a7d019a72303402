// Package numeric holds the scalar primitives every indicator is built on:
// the invalid-sample sentinel, degeneracy-safe arithmetic, tolerant
// comparison, deterministic rounding and whole-window statistics.
//
// Numeric degeneracy (zero denominators, logarithms of non-positive
// numbers, square roots of negative numbers, invalid inputs) never panics
// and never returns an error: the result is the sentinel. Structural misuse
// (bad window length, bad rounding precision) is reported as an error.
package numeric

import "math"

// ZeroTolerance is the magnitude at or below which a denominator is
// treated as zero by SafeDiv.
const ZeroTolerance = 1e-12

// Sentinel returns the invalid-sample marker (NaN).
func Sentinel() float64 {
	return math.NaN()
}

// IsSentinel reports whether x is the invalid-sample marker.
func IsSentinel(x float64) bool {
	return math.IsNaN(x)
}

// IsValid reports whether x is a usable sample. Infinities are not.
func IsValid(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// AllValid reports whether every value is a usable sample.
func AllValid(xs ...float64) bool {
	for _, x := range xs {
		if !IsValid(x) {
			return false
		}
	}
	return true
}

// SafeDiv returns a/b, or the sentinel when either operand is invalid or
// |b| <= ZeroTolerance.
func SafeDiv(a, b float64) float64 {
	if !IsValid(a) || !IsValid(b) || math.Abs(b) <= ZeroTolerance {
		return Sentinel()
	}
	return finite(a / b)
}

// SafeLog returns ln(x), or the sentinel for x <= 0 or invalid x.
func SafeLog(x float64) float64 {
	if !IsValid(x) || x <= 0 {
		return Sentinel()
	}
	return finite(math.Log(x))
}

// SafeSqrt returns sqrt(x), or the sentinel for x < 0 or invalid x.
func SafeSqrt(x float64) float64 {
	if !IsValid(x) || x < 0 {
		return Sentinel()
	}
	return math.Sqrt(x)
}

// AlmostEqual compares two samples with a relative tolerance that falls
// back to an absolute one below magnitude 1. Two sentinels are equal; a
// sentinel never equals a finite value.
func AlmostEqual(a, b, eps float64) bool {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	if aNaN || bNaN {
		return aNaN && bNaN
	}
	if a == b {
		return true
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= eps*scale
}

// Divergence returns |a-b| scaled the same way AlmostEqual scales it.
// Sentinel mismatches report +Inf; matching sentinels report 0.
func Divergence(a, b float64) float64 {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	if aNaN || bNaN {
		if aNaN && bNaN {
			return 0
		}
		return math.Inf(1)
	}
	if a == b {
		return 0
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) / scale
}

// Clamp limits x to [lo, hi]. The sentinel passes through.
func Clamp(x, lo, hi float64) float64 {
	if IsSentinel(x) {
		return x
	}
	return math.Max(lo, math.Min(hi, x))
}

// TrueRange is max(high-low, |high-prevClose|, |low-prevClose|).
// Any invalid operand yields the sentinel.
func TrueRange(high, low, prevClose float64) float64 {
	if !AllValid(high, low, prevClose) {
		return Sentinel()
	}
	tr := high - low
	if v := math.Abs(high - prevClose); v > tr {
		tr = v
	}
	if v := math.Abs(low - prevClose); v > tr {
		tr = v
	}
	return tr
}

// finite maps overflow to the sentinel.
func finite(x float64) float64 {
	if !IsValid(x) {
		return Sentinel()
	}
	return x
}
