package window

import (
	"fmt"
	"math"
	"slices"

	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// Mean is the rolling arithmetic mean. It keeps a running sum of the
// finite samples in the window, so Update is O(1).
type Mean struct {
	win *Window
	sum runningSum
}

// NewMean creates a rolling mean over period samples.
func NewMean(period int) (*Mean, error) {
	w, err := New(period)
	if err != nil {
		return nil, err
	}
	return &Mean{win: w}, nil
}

func (m *Mean) Update(x float64) (float64, bool) {
	m.sum.push(m.win, x)
	if !m.win.Valid() {
		return numeric.Sentinel(), false
	}
	return result(m.sum.total / float64(m.win.Cap()))
}

func (m *Mean) Warmup() int { return m.win.Cap() }

func (m *Mean) Reset() {
	m.win.Reset()
	m.sum = runningSum{}
}

// Clone returns an independent deep copy.
func (m *Mean) Clone() *Mean {
	return &Mean{win: m.win.Clone(), sum: m.sum}
}

// Sum is the rolling sum, O(1) per update.
type Sum struct {
	win *Window
	sum runningSum
}

// NewSum creates a rolling sum over period samples.
func NewSum(period int) (*Sum, error) {
	w, err := New(period)
	if err != nil {
		return nil, err
	}
	return &Sum{win: w}, nil
}

func (s *Sum) Update(x float64) (float64, bool) {
	s.sum.push(s.win, x)
	if !s.win.Valid() {
		return numeric.Sentinel(), false
	}
	return result(s.sum.total)
}

func (s *Sum) Warmup() int { return s.win.Cap() }

func (s *Sum) Reset() {
	s.win.Reset()
	s.sum = runningSum{}
}

// Clone returns an independent deep copy.
func (s *Sum) Clone() *Sum {
	return &Sum{win: s.win.Clone(), sum: s.sum}
}

// runningSum tracks the total of the finite samples in a window. Once the
// total overflows it is rebuilt from the window contents on every push
// until every sample held at the overflow has been evicted.
type runningSum struct {
	total   float64
	rebuild int // pushes left before incremental updates resume
}

func (r *runningSum) push(w *Window, x float64) {
	old, evicted := w.Push(x)
	if r.rebuild == 0 {
		if evicted && numeric.IsValid(old) {
			r.total -= old
		}
		if numeric.IsValid(x) {
			r.total += x
		}
		if numeric.IsValid(r.total) {
			return
		}
		r.rebuild = w.Cap()
	}
	r.total = 0
	for i := 0; i < w.Len(); i++ {
		if v := w.At(i); numeric.IsValid(v) {
			r.total += v
		}
	}
	if numeric.IsValid(r.total) {
		r.rebuild--
	} else {
		r.rebuild = w.Cap()
	}
}

// result maps a non-finite statistic to the sentinel.
func result(x float64) (float64, bool) {
	if !numeric.IsValid(x) {
		return numeric.Sentinel(), false
	}
	return x, true
}

// Variance is the rolling variance. Every update recomputes the two-pass
// variance over the window; there is no incremental update to drift.
type Variance struct {
	win     *Window
	kind    numeric.VarianceKind
	sqrt    bool
	scratch []float64
}

// NewVariance creates a rolling variance. A sample variance needs a period
// of at least 2.
func NewVariance(period int, kind numeric.VarianceKind) (*Variance, error) {
	return newVariance(period, kind, false)
}

// NewStdDev creates a rolling standard deviation.
func NewStdDev(period int, kind numeric.VarianceKind) (*Variance, error) {
	return newVariance(period, kind, true)
}

func newVariance(period int, kind numeric.VarianceKind, sqrt bool) (*Variance, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: variance kind %d", numeric.ErrInvalidKind, int(kind))
	}
	if kind == numeric.Sample && period < 2 {
		return nil, fmt.Errorf("%w: sample variance needs a period of at least 2, got %d", numeric.ErrInvalidPeriod, period)
	}
	w, err := New(period)
	if err != nil {
		return nil, err
	}
	return &Variance{win: w, kind: kind, sqrt: sqrt, scratch: make([]float64, 0, period)}, nil
}

func (v *Variance) Update(x float64) (float64, bool) {
	v.win.Push(x)
	if !v.win.Valid() {
		return numeric.Sentinel(), false
	}
	v.scratch = v.win.CopyTo(v.scratch)
	out := numeric.Variance(v.scratch, v.kind)
	if v.sqrt {
		out = numeric.SafeSqrt(out)
	}
	return result(out)
}

func (v *Variance) Warmup() int { return v.win.Cap() }

func (v *Variance) Reset() { v.win.Reset() }

// Kind returns the variance denominator in use.
func (v *Variance) Kind() numeric.VarianceKind { return v.kind }

// Clone returns an independent deep copy.
func (v *Variance) Clone() *Variance {
	return &Variance{win: v.win.Clone(), kind: v.kind, sqrt: v.sqrt, scratch: make([]float64, 0, v.win.Cap())}
}

// MeanDeviation is the rolling mean absolute deviation around the window
// mean.
type MeanDeviation struct {
	win     *Window
	scratch []float64
}

func NewMeanDeviation(period int) (*MeanDeviation, error) {
	w, err := New(period)
	if err != nil {
		return nil, err
	}
	return &MeanDeviation{win: w, scratch: make([]float64, 0, period)}, nil
}

func (d *MeanDeviation) Update(x float64) (float64, bool) {
	d.win.Push(x)
	if !d.win.Valid() {
		return numeric.Sentinel(), false
	}
	d.scratch = d.win.CopyTo(d.scratch)
	mean := numeric.Mean(d.scratch)
	var dev float64
	for _, v := range d.scratch {
		dev += math.Abs(v - mean)
	}
	return result(dev / float64(len(d.scratch)))
}

func (d *MeanDeviation) Warmup() int { return d.win.Cap() }

func (d *MeanDeviation) Reset() { d.win.Reset() }

func (d *MeanDeviation) Clone() *MeanDeviation {
	return &MeanDeviation{win: d.win.Clone(), scratch: make([]float64, 0, d.win.Cap())}
}

// Median is the rolling median computed on a sorted copy of the window.
// An even period averages the two middle samples.
type Median struct {
	win     *Window
	scratch []float64
}

func NewMedian(period int) (*Median, error) {
	w, err := New(period)
	if err != nil {
		return nil, err
	}
	return &Median{win: w, scratch: make([]float64, 0, period)}, nil
}

func (m *Median) Update(x float64) (float64, bool) {
	m.win.Push(x)
	if !m.win.Valid() {
		return numeric.Sentinel(), false
	}
	m.scratch = m.win.CopyTo(m.scratch)
	slices.Sort(m.scratch)
	n := len(m.scratch)
	if n%2 == 1 {
		return m.scratch[n/2], true
	}
	return result((m.scratch[n/2-1] + m.scratch[n/2]) / 2)
}

func (m *Median) Warmup() int { return m.win.Cap() }

func (m *Median) Reset() { m.win.Reset() }

func (m *Median) Clone() *Median {
	return &Median{win: m.win.Clone(), scratch: make([]float64, 0, m.win.Cap())}
}
