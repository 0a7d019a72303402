package indicator

import (
	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/filter"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/mohamedkhairy/ta-engine/pkg/series"
	"github.com/mohamedkhairy/ta-engine/pkg/window"
)

// Stochastic output names.
const (
	OutK = "k"
	OutD = "d"
)

// Stochastic oscillator. Raw %K places the close inside the high-low range
// of the last kPeriod bars; %K is its smoothK-bar SMA and %D the dPeriod-bar
// SMA of %K. A flat range yields the sentinel.
type Stochastic struct {
	multi
	highest *window.Extreme
	lowest  *window.Extreme
	smoothK *window.Mean
	d       *window.Mean
}

func NewStochastic(kPeriod, smoothK, dPeriod int) (*Stochastic, error) {
	if err := checkPeriod("stochastic %K", kPeriod, 1); err != nil {
		return nil, err
	}
	if err := checkPeriod("stochastic %K smoothing", smoothK, 1); err != nil {
		return nil, err
	}
	if err := checkPeriod("stochastic %D", dPeriod, 1); err != nil {
		return nil, err
	}
	hi, err := window.NewHighest(kPeriod)
	if err != nil {
		return nil, err
	}
	lo, _ := window.NewLowest(kPeriod)
	sk, err := window.NewMean(smoothK)
	if err != nil {
		return nil, err
	}
	d, err := window.NewMean(dPeriod)
	if err != nil {
		return nil, err
	}
	return &Stochastic{
		multi:   newMulti(formatName("stoch", Close, kPeriod, smoothK, dPeriod), series.ChainWarmup(kPeriod, smoothK, dPeriod), OutK, OutD),
		highest: hi,
		lowest:  lo,
		smoothK: sk,
		d:       d,
	}, nil
}

func (s *Stochastic) Update(bar *models.Bar) (float64, bool) {
	hh, _ := s.highest.Update(High.Of(bar))
	ll, _ := s.lowest.Update(Low.Of(bar))
	raw := 100 * numeric.SafeDiv(Close.Of(bar)-ll, hh-ll)
	k, _ := s.smoothK.Update(raw)
	d, _ := s.d.Update(k)
	return s.publish(k, d)
}

func (s *Stochastic) Reset() {
	s.highest.Reset()
	s.lowest.Reset()
	s.smoothK.Reset()
	s.d.Reset()
	s.resetMulti()
}

// ZScore is the distance of the value from its rolling mean in units of
// the rolling population standard deviation.
type ZScore struct {
	base
	source Source
	mean   *window.Mean
	dev    *window.Variance
}

func NewZScore(period int, source Source) (*ZScore, error) {
	if err := checkPeriod("z-score", period, 1); err != nil {
		return nil, err
	}
	m, err := window.NewMean(period)
	if err != nil {
		return nil, err
	}
	sd, err := window.NewStdDev(period, numeric.Population)
	if err != nil {
		return nil, err
	}
	return &ZScore{base: newBase(formatName("zscore", source, period), period), source: source, mean: m, dev: sd}, nil
}

func (z *ZScore) Update(bar *models.Bar) (float64, bool) {
	x := z.source.Of(bar)
	m, _ := z.mean.Update(x)
	sd, _ := z.dev.Update(x)
	v := numeric.SafeDiv(x-m, sd)
	return z.record(v, numeric.IsValid(v))
}

func (z *ZScore) Reset() {
	z.mean.Reset()
	z.dev.Reset()
	z.resetBase()
}

// NewROC creates the percentage rate of change over period bars
// ROC = 100 * (Price - Price[period ago]) / Price[period ago]
func NewROC(period int, source Source) (*Single, error) {
	c, err := NewChange(period)
	if err != nil {
		return nil, err
	}
	return newSingle(formatName("roc", source, period), source, c), nil
}

// NewRangeROC creates the rate of change, over lookback bars, of the
// high-low range smoothed by a period-bar moving average of kind.
func NewRangeROC(period, lookback int, kind MAKind, seed filter.SeedMode) (*Single, error) {
	if err := checkPeriod("range ROC", period, 1); err != nil {
		return nil, err
	}
	smooth, err := NewSmoother(kind, period, seed)
	if err != nil {
		return nil, err
	}
	change, err := NewChange(lookback)
	if err != nil {
		return nil, err
	}
	c, err := NewCascade([]series.Stage{smooth, change}, []float64{0, 1})
	if err != nil {
		return nil, err
	}
	return newSingle(withSeed(formatName(kindPrefix("range_roc", kind), Close, period, lookback), seed), Range, c), nil
}
