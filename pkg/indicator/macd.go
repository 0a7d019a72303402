package indicator

import (
	"fmt"

	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/filter"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/mohamedkhairy/ta-engine/pkg/series"
)

// MACD output names.
const (
	OutMACD      = "macd"
	OutSignal    = "signal"
	OutHistogram = "histogram"
)

// MACD is the difference of a fast and a slow EMA (the MACD line), an EMA
// of that line (the signal) and their difference (the histogram). No
// output is published before the signal line is valid.
type MACD struct {
	multi
	source Source
	fast   *filter.Recursive
	slow   *filter.Recursive
	signal *filter.Recursive
}

func NewMACD(fastPeriod, slowPeriod, signalPeriod int, source Source, seed filter.SeedMode) (*MACD, error) {
	if fastPeriod >= slowPeriod {
		return nil, fmt.Errorf("%w: MACD fast period %d must be below slow period %d", numeric.ErrInvalidPeriod, fastPeriod, slowPeriod)
	}
	fast, err := filter.NewEMA(fastPeriod, seed)
	if err != nil {
		return nil, err
	}
	slow, err := filter.NewEMA(slowPeriod, seed)
	if err != nil {
		return nil, err
	}
	signal, err := filter.NewEMA(signalPeriod, seed)
	if err != nil {
		return nil, err
	}

	line := series.ParallelWarmup(fast.Warmup(), slow.Warmup())
	return &MACD{
		multi:  newMulti(withSeed(formatName("macd", source, fastPeriod, slowPeriod, signalPeriod), seed), series.ChainWarmup(line, signal.Warmup()), OutMACD, OutSignal, OutHistogram),
		source: source,
		fast:   fast,
		slow:   slow,
		signal: signal,
	}, nil
}

func (m *MACD) Update(bar *models.Bar) (float64, bool) {
	x := m.source.Of(bar)
	f, okF := m.fast.Update(x)
	s, okS := m.slow.Update(x)

	line := numeric.Sentinel()
	if okF && okS {
		line = f - s
	}
	sig, _ := m.signal.Update(line)
	return m.publish(line, sig, line-sig)
}

func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.Reset()
	m.resetMulti()
}
