package conformance

import (
	"fmt"
	"sort"

	engine "github.com/mohamedkhairy/ta-engine/internal/indicator"
	indicatorpkg "github.com/mohamedkhairy/ta-engine/pkg/indicator"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// Footprint is the set of output offsets, relative to a missing bar, that
// the missing bar voids once an indicator is past its warm-up. Offset 0 is
// the missing bar itself. Every other offset up to the last one must be
// valid on otherwise clean input.
type Footprint []int

// missing is the footprint of the missing bar on any raw bar field.
var missing = Footprint{0}

// Last is the largest voided offset.
func (f Footprint) Last() int {
	if len(f) == 0 {
		return -1
	}
	return f[len(f)-1]
}

// Contains reports whether offset o is voided.
func (f Footprint) Contains(o int) bool {
	i := sort.SearchInts(f, o)
	return i < len(f) && f[i] == o
}

// Window is the footprint after a p-sample rolling window: a voided input
// stays in the window for p samples.
func (f Footprint) Window(p int) Footprint {
	out := make([]int, 0, len(f)*p)
	for _, o := range f {
		for j := 0; j < p; j++ {
			out = append(out, o+j)
		}
	}
	return normalize(out)
}

// Change is the footprint after comparing each sample with the one n
// samples earlier: both ends void the output.
func (f Footprint) Change(n int) Footprint {
	out := append([]int(nil), f...)
	for _, o := range f {
		out = append(out, o+n)
	}
	return normalize(out)
}

// Union combines branches that feed one output.
func Union(fs ...Footprint) Footprint {
	var out []int
	for _, f := range fs {
		out = append(out, f...)
	}
	return normalize(out)
}

func normalize(xs []int) Footprint {
	sort.Ints(xs)
	out := make(Footprint, 0, len(xs))
	for _, x := range xs {
		if len(out) == 0 || x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

// smoothed is the footprint after a moving average of kind. Recursive
// averages skip an invalid sample without touching their state, so they
// pass the footprint through unchanged.
func smoothed(f Footprint, kind indicatorpkg.MAKind, p int) Footprint {
	if kind == indicatorpkg.EMA || kind == indicatorpkg.RMA {
		return f
	}
	return f.Window(p)
}

// FootprintFor derives the footprint of the indicator spec describes from
// the structure of its stages.
func FootprintFor(spec engine.Spec) (Footprint, error) {
	kind := indicatorpkg.SMA
	if spec.MA != "" {
		var err error
		if kind, err = indicatorpkg.ParseMAKind(spec.MA); err != nil {
			return nil, err
		}
	}

	p := spec.Period
	switch spec.Type {
	case engine.TypeSMA, engine.TypeWMA, engine.TypeMedian, engine.TypeLinReg,
		engine.TypeZScore, engine.TypeDonchian, engine.TypeVWAP,
		engine.TypeVolumeAvg, engine.TypeRVOL:
		return missing.Window(p), nil
	case engine.TypeEMA, engine.TypeRMA, engine.TypeDEMA, engine.TypeTEMA,
		engine.TypeT3, engine.TypeMACD:
		return Footprint{0}, nil
	case engine.TypeTRIX, engine.TypeTrueRange, engine.TypeATR,
		engine.TypeNATR, engine.TypeRSI:
		// one-bar difference of the source or the previous close
		return missing.Change(1), nil
	case engine.TypeBollinger:
		return Union(smoothed(missing, kind, p), missing.Window(p)), nil
	case engine.TypeKeltner:
		return Union(smoothed(missing, kind, p), missing.Change(1)), nil
	case engine.TypeKAMA:
		// noise sums |x - prev| over p bars; the efficiency ratio looks p bars back
		return Union(missing.Change(1).Window(p), missing.Change(p)), nil
	case engine.TypeStochastic:
		k := missing.Window(p).Window(spec.Smooth)
		return Union(k, k.Window(spec.Signal)), nil
	case engine.TypeROC:
		return missing.Change(p), nil
	case engine.TypeRangeROC:
		return smoothed(missing, kind, p).Change(spec.Lookback), nil
	}
	return nil, fmt.Errorf("%w: no footprint for indicator type %q", numeric.ErrInvalidKind, spec.Type)
}
