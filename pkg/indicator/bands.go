package indicator

import (
	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/filter"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/mohamedkhairy/ta-engine/pkg/series"
	"github.com/mohamedkhairy/ta-engine/pkg/window"
)

// Band output names.
const (
	OutBasis  = "basis"
	OutUpper  = "upper"
	OutLower  = "lower"
	OutWidth  = "width"
	OutMiddle = "middle"
)

// Bollinger bands: a moving-average basis with bands k standard deviations
// above and below.
type Bollinger struct {
	multi
	source Source
	basis  series.Stage
	dev    *window.Variance
	k      float64
}

// NewBollinger creates Bollinger bands over period bars. The deviation is
// the population standard deviation of the same window.
func NewBollinger(period int, k float64, kind MAKind, source Source, seed filter.SeedMode) (*Bollinger, error) {
	if err := checkPeriod("Bollinger", period, 1); err != nil {
		return nil, err
	}
	if err := checkMultiplier("Bollinger", k); err != nil {
		return nil, err
	}
	basis, err := NewSmoother(kind, period, seed)
	if err != nil {
		return nil, err
	}
	dev, err := window.NewStdDev(period, numeric.Population)
	if err != nil {
		return nil, err
	}

	name := withSeed(formatName(kindPrefix("bollinger", kind), source, period, k), seed)
	return &Bollinger{
		multi:  newMulti(name, series.ParallelWarmup(basis.Warmup(), dev.Warmup()), OutBasis, OutUpper, OutLower, OutWidth),
		source: source,
		basis:  basis,
		dev:    dev,
		k:      k,
	}, nil
}

func (b *Bollinger) Update(bar *models.Bar) (float64, bool) {
	x := b.source.Of(bar)
	mid, _ := b.basis.Update(x)
	sd, _ := b.dev.Update(x)
	return b.publish(mid, mid+b.k*sd, mid-b.k*sd, 2*b.k*sd)
}

func (b *Bollinger) Reset() {
	b.basis.Reset()
	b.dev.Reset()
	b.resetMulti()
}

// Keltner channels: a moving-average basis with bands k ATRs above and
// below.
type Keltner struct {
	multi
	source Source
	basis  series.Stage
	atr    *ATR
	k      float64
}

func NewKeltner(period, atrPeriod int, k float64, kind MAKind, source Source, seed filter.SeedMode) (*Keltner, error) {
	if err := checkPeriod("Keltner", period, 1); err != nil {
		return nil, err
	}
	if err := checkMultiplier("Keltner", k); err != nil {
		return nil, err
	}
	basis, err := NewSmoother(kind, period, seed)
	if err != nil {
		return nil, err
	}
	atr, err := NewATR(atrPeriod, seed)
	if err != nil {
		return nil, err
	}
	return &Keltner{
		multi:  newMulti(withSeed(formatName(kindPrefix("keltner", kind), source, period, atrPeriod, k), seed), series.ParallelWarmup(basis.Warmup(), atr.Warmup()), OutBasis, OutUpper, OutLower, OutWidth),
		source: source,
		basis:  basis,
		atr:    atr,
		k:      k,
	}, nil
}

func (kc *Keltner) Update(bar *models.Bar) (float64, bool) {
	mid, _ := kc.basis.Update(kc.source.Of(bar))
	rng, _ := kc.atr.Update(bar)
	return kc.publish(mid, mid+kc.k*rng, mid-kc.k*rng, 2*kc.k*rng)
}

func (kc *Keltner) Reset() {
	kc.basis.Reset()
	kc.atr.Reset()
	kc.resetMulti()
}

// Donchian channels: highest high and lowest low over period bars and
// their midpoint.
type Donchian struct {
	multi
	highest *window.Extreme
	lowest  *window.Extreme
}

func NewDonchian(period int) (*Donchian, error) {
	if err := checkPeriod("Donchian", period, 1); err != nil {
		return nil, err
	}
	hi, err := window.NewHighest(period)
	if err != nil {
		return nil, err
	}
	lo, _ := window.NewLowest(period)
	return &Donchian{
		multi:   newMulti(formatName("donchian", Close, period), period, OutMiddle, OutUpper, OutLower, OutWidth),
		highest: hi,
		lowest:  lo,
	}, nil
}

func (d *Donchian) Update(bar *models.Bar) (float64, bool) {
	upper, _ := d.highest.Update(High.Of(bar))
	lower, _ := d.lowest.Update(Low.Of(bar))
	return d.publish((upper+lower)/2, upper, lower, upper-lower)
}

func (d *Donchian) Reset() {
	d.highest.Reset()
	d.lowest.Reset()
	d.resetMulti()
}
