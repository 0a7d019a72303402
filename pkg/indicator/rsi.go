package indicator

import (
	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/filter"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/mohamedkhairy/ta-engine/pkg/series"
)

// RSI calculates the Relative Strength Index
// RSI = 100 * AvgGain / (AvgGain + AvgLoss)
// where the averages are Wilder's moving averages of the bar-to-bar gains
// and losses. A window without any movement has no defined RSI and yields
// the sentinel.
type RSI struct {
	base
	source Source
	prev   float64
	gains  *filter.Recursive
	losses *filter.Recursive
}

// NewRSI creates a new RSI calculator with the specified period (typically 14)
func NewRSI(period int, source Source, seed filter.SeedMode) (*RSI, error) {
	if err := checkPeriod("RSI", period, 1); err != nil {
		return nil, err
	}
	gains, err := filter.NewRMA(period, seed)
	if err != nil {
		return nil, err
	}
	losses, _ := filter.NewRMA(period, seed)

	return &RSI{
		base:   newBase(withSeed(formatName("rsi", source, period), seed), series.ChainWarmup(2, gains.Warmup())),
		source: source,
		prev:   numeric.Sentinel(),
		gains:  gains,
		losses: losses,
	}, nil
}

// Update processes a new bar and updates the RSI calculation
func (r *RSI) Update(bar *models.Bar) (float64, bool) {
	x := r.source.Of(bar)
	change := x - r.prev
	r.prev = x

	gain, loss := numeric.Sentinel(), numeric.Sentinel()
	if numeric.IsValid(change) {
		gain, loss = 0, 0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
	}

	avgGain, okG := r.gains.Update(gain)
	avgLoss, okL := r.losses.Update(loss)
	if !okG || !okL {
		return r.record(numeric.Sentinel(), false)
	}
	v := numeric.SafeDiv(avgGain, avgGain+avgLoss)
	return r.record(numeric.Clamp(100*v, 0, 100), numeric.IsValid(v))
}

// Reset clears the RSI state
func (r *RSI) Reset() {
	r.prev = numeric.Sentinel()
	r.gains.Reset()
	r.losses.Reset()
	r.resetBase()
}
