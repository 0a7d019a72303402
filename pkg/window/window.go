// Package window provides the fixed-capacity ring buffer behind every
// rolling statistic, and the statistics themselves as series stages.
//
// A window whose buffer holds an invalid sample yields the sentinel until
// that sample is evicted. Warm-up of every windowed statistic equals its
// capacity.
package window

import (
	"fmt"

	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// Window is a ring buffer of the last Cap samples. Invalid samples
// (NaN, ±Inf) are stored as the sentinel and counted so Valid is O(1).
type Window struct {
	buf     []float64
	head    int // position of the oldest sample
	n       int
	invalid int
}

// New creates an empty window.
func New(capacity int) (*Window, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: window capacity must be at least 1, got %d", numeric.ErrInvalidPeriod, capacity)
	}
	return &Window{buf: make([]float64, capacity)}, nil
}

// Push appends x. When the window was full the oldest sample is evicted
// and returned with true.
func (w *Window) Push(x float64) (float64, bool) {
	if !numeric.IsValid(x) {
		x = numeric.Sentinel()
		w.invalid++
	}

	if w.n < len(w.buf) {
		w.buf[(w.head+w.n)%len(w.buf)] = x
		w.n++
		return numeric.Sentinel(), false
	}

	old := w.buf[w.head]
	if numeric.IsSentinel(old) {
		w.invalid--
	}
	w.buf[w.head] = x
	w.head = (w.head + 1) % len(w.buf)
	return old, true
}

// Len is the number of samples held.
func (w *Window) Len() int { return w.n }

// Cap is the window capacity.
func (w *Window) Cap() int { return len(w.buf) }

// Full reports whether Len == Cap.
func (w *Window) Full() bool { return w.n == len(w.buf) }

// Valid reports whether the window is full and holds no sentinel.
func (w *Window) Valid() bool { return w.Full() && w.invalid == 0 }

// Invalid is the number of sentinel samples held.
func (w *Window) Invalid() int { return w.invalid }

// At returns the i-th held sample, 0 being the oldest.
func (w *Window) At(i int) float64 {
	if i < 0 || i >= w.n {
		return numeric.Sentinel()
	}
	return w.buf[(w.head+i)%len(w.buf)]
}

// Newest returns the most recent sample.
func (w *Window) Newest() float64 { return w.At(w.n - 1) }

// Oldest returns the oldest held sample.
func (w *Window) Oldest() float64 { return w.At(0) }

// Values returns the held samples oldest first.
func (w *Window) Values() []float64 {
	return w.CopyTo(make([]float64, 0, w.n))
}

// CopyTo appends the held samples, oldest first, to dst[:0].
func (w *Window) CopyTo(dst []float64) []float64 {
	dst = dst[:0]
	for i := 0; i < w.n; i++ {
		dst = append(dst, w.buf[(w.head+i)%len(w.buf)])
	}
	return dst
}

// Reset empties the window.
func (w *Window) Reset() {
	w.head = 0
	w.n = 0
	w.invalid = 0
}

// Clone returns an independent deep copy.
func (w *Window) Clone() *Window {
	c := *w
	c.buf = append([]float64(nil), w.buf...)
	return &c
}
