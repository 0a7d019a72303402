package indicator

import (
	"fmt"

	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/mohamedkhairy/ta-engine/pkg/series"
)

// Source selects the bar field, or derived price, an indicator consumes.
type Source int

const (
	Close Source = iota
	Open
	High
	Low
	Volume
	HL2   // (high+low)/2
	HLC3  // (high+low+close)/3
	OHLC4 // (open+high+low+close)/4
	Range // high-low
)

var sourceNames = map[Source]string{
	Close:  "close",
	Open:   "open",
	High:   "high",
	Low:    "low",
	Volume: "volume",
	HL2:    "hl2",
	HLC3:   "hlc3",
	OHLC4:  "ohlc4",
	Range:  "range",
}

func (s Source) String() string {
	if n, ok := sourceNames[s]; ok {
		return n
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// ParseSource maps a source name back to a Source. Empty means Close.
func ParseSource(name string) (Source, error) {
	if name == "" {
		return Close, nil
	}
	for s, n := range sourceNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown source %q", numeric.ErrInvalidKind, name)
}

// Of extracts the source value from bar. Derived prices are the sentinel
// when any input field is missing.
func (s Source) Of(bar *models.Bar) float64 {
	if bar == nil {
		return numeric.Sentinel()
	}
	var v float64
	switch s {
	case Open:
		v = bar.Open
	case High:
		v = bar.High
	case Low:
		v = bar.Low
	case Volume:
		v = bar.Volume
	case HL2:
		v = (bar.High + bar.Low) / 2
	case HLC3:
		v = (bar.High + bar.Low + bar.Close) / 3
	case OHLC4:
		v = (bar.Open + bar.High + bar.Low + bar.Close) / 4
	case Range:
		v = bar.High - bar.Low
	default:
		v = bar.Close
	}
	if !numeric.IsValid(v) {
		return numeric.Sentinel()
	}
	return v
}

// BarsFromFields zips parallel field arrays into bars. Mismatched lengths
// are rejected.
func BarsFromFields(opens, highs, lows, closes, volumes []float64) ([]*models.Bar, error) {
	if err := series.CheckLengths(opens, highs, lows, closes, volumes); err != nil {
		return nil, err
	}
	bars := make([]*models.Bar, len(closes))
	for i := range closes {
		bars[i] = &models.Bar{
			Open:   opens[i],
			High:   highs[i],
			Low:    lows[i],
			Close:  closes[i],
			Volume: volumes[i],
		}
	}
	return bars, nil
}

// BarsFromCloses builds bars whose every price is the close. Volume is 0.
func BarsFromCloses(closes []float64) []*models.Bar {
	bars := make([]*models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = &models.Bar{Open: c, High: c, Low: c, Close: c}
	}
	return bars
}
