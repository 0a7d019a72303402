package indicator

import (
	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/mohamedkhairy/ta-engine/pkg/window"
)

// NewVolumeAverage creates the average volume over period bars.
func NewVolumeAverage(period int) (*Single, error) {
	if err := checkPeriod("volume average", period, 1); err != nil {
		return nil, err
	}
	m, err := window.NewMean(period)
	if err != nil {
		return nil, err
	}
	return newSingle(formatName("volume_avg", Close, period), Volume, m), nil
}

// RelativeVolume is the bar volume divided by the average volume of the
// last period bars, the current one included.
type RelativeVolume struct {
	base
	avg *window.Mean
}

func NewRelativeVolume(period int) (*RelativeVolume, error) {
	if err := checkPeriod("relative volume", period, 1); err != nil {
		return nil, err
	}
	m, err := window.NewMean(period)
	if err != nil {
		return nil, err
	}
	return &RelativeVolume{base: newBase(formatName("rvol", Close, period), period), avg: m}, nil
}

func (r *RelativeVolume) Update(bar *models.Bar) (float64, bool) {
	v := Volume.Of(bar)
	avg, _ := r.avg.Update(v)
	out := numeric.SafeDiv(v, avg)
	return r.record(out, numeric.IsValid(out))
}

func (r *RelativeVolume) Reset() {
	r.avg.Reset()
	r.resetBase()
}
