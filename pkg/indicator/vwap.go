package indicator

import (
	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/mohamedkhairy/ta-engine/pkg/window"
)

// VWAP calculates the Volume Weighted Average Price over the last period
// bars
// VWAP = Sum(TypicalPrice * Volume) / Sum(Volume)
// Periods without volume have no defined VWAP and yield the sentinel.
type VWAP struct {
	base
	pv  *window.Sum
	vol *window.Sum
}

// NewVWAP creates a new VWAP calculator over period bars
func NewVWAP(period int) (*VWAP, error) {
	if err := checkPeriod("VWAP", period, 1); err != nil {
		return nil, err
	}
	pv, err := window.NewSum(period)
	if err != nil {
		return nil, err
	}
	vol, _ := window.NewSum(period)
	return &VWAP{base: newBase(formatName("vwap", Close, period), period), pv: pv, vol: vol}, nil
}

// Update processes a new bar and updates the VWAP calculation
func (v *VWAP) Update(bar *models.Bar) (float64, bool) {
	volume := Volume.Of(bar)
	sumPV, _ := v.pv.Update(HLC3.Of(bar) * volume)
	sumV, _ := v.vol.Update(volume)
	out := numeric.SafeDiv(sumPV, sumV)
	return v.record(out, numeric.IsValid(out))
}

// Reset clears the VWAP state
func (v *VWAP) Reset() {
	v.pv.Reset()
	v.vol.Reset()
	v.resetBase()
}
