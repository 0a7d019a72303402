package numeric

import "fmt"

// VarianceKind selects the variance denominator.
type VarianceKind int

const (
	// Population divides by n.
	Population VarianceKind = iota
	// Sample divides by n-1.
	Sample
)

func (k VarianceKind) String() string {
	if k == Sample {
		return "sample"
	}
	return "population"
}

// Valid reports whether k is a known kind.
func (k VarianceKind) Valid() bool {
	return k == Population || k == Sample
}

// Sum adds every element. One invalid element, or an overflowing total,
// voids the result.
func Sum(xs []float64) float64 {
	if len(xs) == 0 {
		return Sentinel()
	}
	var sum float64
	for _, x := range xs {
		if !IsValid(x) {
			return Sentinel()
		}
		sum += x
	}
	return finite(sum)
}

// Mean is the unweighted mean. Empty or partially invalid input yields the
// sentinel; there is no NaN-skipping mode.
func Mean(xs []float64) float64 {
	sum := Sum(xs)
	if IsSentinel(sum) {
		return sum
	}
	return finite(sum / float64(len(xs)))
}

// Variance computes the two-pass variance of xs. A sample variance needs
// at least two elements.
func Variance(xs []float64, kind VarianceKind) float64 {
	mean := Mean(xs)
	if IsSentinel(mean) {
		return mean
	}
	n := len(xs)
	denom := n
	if kind == Sample {
		denom = n - 1
	}
	if denom < 1 {
		return Sentinel()
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return finite(ss / float64(denom))
}

// StdDev is the square root of Variance.
func StdDev(xs []float64, kind VarianceKind) float64 {
	return SafeSqrt(Variance(xs, kind))
}

// Covariance computes the two-pass covariance of two equally long series.
func Covariance(xs, ys []float64, kind VarianceKind) (float64, error) {
	if len(xs) != len(ys) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(xs), len(ys))
	}
	mx, my := Mean(xs), Mean(ys)
	if IsSentinel(mx) || IsSentinel(my) {
		return Sentinel(), nil
	}
	n := len(xs)
	denom := n
	if kind == Sample {
		denom = n - 1
	}
	if denom < 1 {
		return Sentinel(), nil
	}
	var s float64
	for i := range xs {
		s += (xs[i] - mx) * (ys[i] - my)
	}
	return finite(s / float64(denom)), nil
}

// Correlation is the Pearson correlation of two equally long series. A
// flat series has no defined correlation and yields the sentinel.
func Correlation(xs, ys []float64) (float64, error) {
	cov, err := Covariance(xs, ys, Population)
	if err != nil {
		return 0, err
	}
	sx := StdDev(xs, Population)
	sy := StdDev(ys, Population)
	return Clamp(SafeDiv(cov, sx*sy), -1, 1), nil
}

// WindowMean is the mean of the length samples ending at index end.
// A window reaching before index 0 yields the sentinel.
func WindowMean(xs []float64, end, length int) (float64, error) {
	w, err := windowSlice(xs, end, length)
	if err != nil || w == nil {
		return Sentinel(), err
	}
	return Mean(w), nil
}

// WindowVariance is Variance over the length samples ending at end.
func WindowVariance(xs []float64, end, length int, kind VarianceKind) (float64, error) {
	w, err := windowSlice(xs, end, length)
	if err != nil || w == nil {
		return Sentinel(), err
	}
	return Variance(w, kind), nil
}

// WindowCovariance is Covariance over the length samples ending at end.
func WindowCovariance(xs, ys []float64, end, length int, kind VarianceKind) (float64, error) {
	if len(xs) != len(ys) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(xs), len(ys))
	}
	wx, err := windowSlice(xs, end, length)
	if err != nil || wx == nil {
		return Sentinel(), err
	}
	wy, _ := windowSlice(ys, end, length)
	return Covariance(wx, wy, kind)
}

// windowSlice returns xs[end-length+1 : end+1], nil when the window is not
// fully inside xs, or an error for a non-positive length.
func windowSlice(xs []float64, end, length int) ([]float64, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: window length %d", ErrInvalidPeriod, length)
	}
	start := end - length + 1
	if start < 0 || end >= len(xs) {
		return nil, nil
	}
	return xs[start : end+1], nil
}
