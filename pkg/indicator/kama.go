package indicator

import (
	"fmt"
	"math"

	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/filter"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/mohamedkhairy/ta-engine/pkg/window"
)

// KAMA is Kaufman's adaptive moving average. The efficiency ratio
//
//	ER = |x - x[period ago]| / sum(|x[i] - x[i-1]|) over period changes
//
// scales the smoothing constant between the fast and slow EMA constants:
// sc = (ER*(fast-slow) + slow)^2. The first value is seeded from the
// sample before it, so the warm-up is period+1 bars. A window without any
// movement holds the previous value.
type KAMA struct {
	base
	source Source
	fast   float64
	slow   float64
	prev   float64
	lag    *window.Lag
	noise  *window.Sum
	filter filter.Adaptive
}

// NewKAMA creates a KAMA with the classic constants (fast 2, slow 30).
func NewKAMA(period int, source Source) (*KAMA, error) {
	return NewKAMAWithConstants(period, 2, 30, source)
}

func NewKAMAWithConstants(period, fastPeriod, slowPeriod int, source Source) (*KAMA, error) {
	if err := checkPeriod("KAMA", period, 1); err != nil {
		return nil, err
	}
	if err := checkPeriod("KAMA fast", fastPeriod, 1); err != nil {
		return nil, err
	}
	if fastPeriod >= slowPeriod {
		return nil, fmt.Errorf("%w: KAMA fast period %d must be below slow period %d", numeric.ErrInvalidPeriod, fastPeriod, slowPeriod)
	}
	lag, err := window.NewLag(period)
	if err != nil {
		return nil, err
	}
	noise, err := window.NewSum(period)
	if err != nil {
		return nil, err
	}

	name := formatName("kama", source, period)
	if fastPeriod != 2 || slowPeriod != 30 {
		name = formatName("kama", source, period, fastPeriod, slowPeriod)
	}
	return &KAMA{
		base:   newBase(name, lag.Warmup()),
		source: source,
		fast:   2 / float64(fastPeriod+1),
		slow:   2 / float64(slowPeriod+1),
		prev:   numeric.Sentinel(),
		lag:    lag,
		noise:  noise,
	}, nil
}

func (k *KAMA) Update(bar *models.Bar) (float64, bool) {
	x := k.source.Of(bar)
	prev := k.prev
	k.prev = x

	noise, okN := k.noise.Update(math.Abs(x - prev))
	past, okP := k.lag.Update(x)
	if !okN || !okP || !numeric.IsValid(x) {
		return k.record(numeric.Sentinel(), false)
	}

	if !k.filter.Seeded() {
		k.filter.Seed(prev)
	}
	er := numeric.SafeDiv(math.Abs(x-past), noise)
	if numeric.IsSentinel(er) {
		return k.record(k.filter.Hold(), true)
	}
	sc := math.Pow(math.Min(er, 1)*(k.fast-k.slow)+k.slow, 2)
	return k.record(k.filter.Step(x, sc), true)
}

func (k *KAMA) Reset() {
	k.prev = numeric.Sentinel()
	k.lag.Reset()
	k.noise.Reset()
	k.filter.Reset()
	k.resetBase()
}
