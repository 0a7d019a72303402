package window

import (
	"fmt"

	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// Extreme is the rolling maximum or minimum. Each update rescans the
// window, O(period).
type Extreme struct {
	win     *Window
	highest bool
}

// NewHighest creates a rolling maximum.
func NewHighest(period int) (*Extreme, error) {
	return newExtreme(period, true)
}

// NewLowest creates a rolling minimum.
func NewLowest(period int) (*Extreme, error) {
	return newExtreme(period, false)
}

func newExtreme(period int, highest bool) (*Extreme, error) {
	w, err := New(period)
	if err != nil {
		return nil, err
	}
	return &Extreme{win: w, highest: highest}, nil
}

func (e *Extreme) Update(x float64) (float64, bool) {
	e.win.Push(x)
	if !e.win.Valid() {
		return numeric.Sentinel(), false
	}
	best := e.win.At(0)
	for i := 1; i < e.win.Len(); i++ {
		v := e.win.At(i)
		if (e.highest && v > best) || (!e.highest && v < best) {
			best = v
		}
	}
	return best, true
}

func (e *Extreme) Warmup() int { return e.win.Cap() }

func (e *Extreme) Reset() { e.win.Reset() }

func (e *Extreme) Clone() *Extreme {
	return &Extreme{win: e.win.Clone(), highest: e.highest}
}

// Lag returns the sample seen n updates ago. Only that sample decides
// validity; the ones in between do not.
type Lag struct {
	win *Window
}

// NewLag creates a delay of n samples. Lag 0 is the identity.
func NewLag(n int) (*Lag, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: lag must not be negative, got %d", numeric.ErrInvalidPeriod, n)
	}
	w, err := New(n + 1)
	if err != nil {
		return nil, err
	}
	return &Lag{win: w}, nil
}

func (l *Lag) Update(x float64) (float64, bool) {
	l.win.Push(x)
	if !l.win.Full() {
		return numeric.Sentinel(), false
	}
	v := l.win.Oldest()
	return v, numeric.IsValid(v)
}

func (l *Lag) Warmup() int { return l.win.Cap() }

func (l *Lag) Reset() { l.win.Reset() }

func (l *Lag) Clone() *Lag { return &Lag{win: l.win.Clone()} }
