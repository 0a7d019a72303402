package indicator

import (
	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/filter"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/mohamedkhairy/ta-engine/pkg/series"
)

// trueRange tracks the previous close. The first bar has no previous close
// and yields the sentinel.
type trueRange struct {
	prevClose float64
}

func newTrueRange() trueRange {
	return trueRange{prevClose: numeric.Sentinel()}
}

func (t *trueRange) next(bar *models.Bar) float64 {
	high, low, cls := High.Of(bar), Low.Of(bar), Close.Of(bar)
	tr := numeric.TrueRange(high, low, t.prevClose)
	t.prevClose = cls
	return tr
}

func (t *trueRange) reset() { t.prevClose = numeric.Sentinel() }

// TrueRange is max(high-low, |high-prevClose|, |low-prevClose|).
type TrueRange struct {
	base
	tr trueRange
}

func NewTrueRange() *TrueRange {
	return &TrueRange{base: newBase("true_range", 2), tr: newTrueRange()}
}

func (t *TrueRange) Update(bar *models.Bar) (float64, bool) {
	v := t.tr.next(bar)
	return t.record(v, numeric.IsValid(v))
}

func (t *TrueRange) Reset() {
	t.tr.reset()
	t.resetBase()
}

// ATR calculates the Average True Range: Wilder's moving average of the
// true range. With normalize set it reports 100*ATR/close (NATR).
type ATR struct {
	base
	tr        trueRange
	smoother  *filter.Recursive
	normalize bool
}

// NewATR creates an ATR. The first true range needs a previous close, so
// the warm-up is period+1 bars.
func NewATR(period int, seed filter.SeedMode) (*ATR, error) {
	return newATR("atr", period, seed, false)
}

// NewNATR creates the ATR normalized by the close, in percent.
func NewNATR(period int, seed filter.SeedMode) (*ATR, error) {
	return newATR("natr", period, seed, true)
}

func newATR(prefix string, period int, seed filter.SeedMode, normalize bool) (*ATR, error) {
	if err := checkPeriod(prefix, period, 1); err != nil {
		return nil, err
	}
	rma, err := filter.NewRMA(period, seed)
	if err != nil {
		return nil, err
	}
	return &ATR{
		base:      newBase(withSeed(formatName(prefix, Close, period), seed), series.ChainWarmup(2, rma.Warmup())),
		tr:        newTrueRange(),
		smoother:  rma,
		normalize: normalize,
	}, nil
}

func (a *ATR) Update(bar *models.Bar) (float64, bool) {
	v, ok := a.smoother.Update(a.tr.next(bar))
	if ok && a.normalize {
		v = 100 * numeric.SafeDiv(v, Close.Of(bar))
		ok = numeric.IsValid(v)
	}
	return a.record(v, ok)
}

func (a *ATR) Reset() {
	a.tr.reset()
	a.smoother.Reset()
	a.resetBase()
}
