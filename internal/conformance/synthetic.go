// Package conformance checks that calculators honour the engine contract:
// batch and streaming evaluation agree, warm-up lengths are what the
// calculators report, Reset restores the initial state, and missing samples
// void exactly the outputs that depend on them. It also cross-checks
// outputs against independent reference implementations.
package conformance

import (
	"math"
	"math/rand"
	"time"

	"github.com/mohamedkhairy/ta-engine/internal/models"
)

// SyntheticStart is the timestamp of the first synthetic bar.
var SyntheticStart = time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)

// Synthetic returns n one-minute bars of a seeded geometric random walk.
// The same (n, seed) always yields the same bars. Prices stay positive and
// every bar has a non-zero range and volume.
func Synthetic(n int, seed int64) []*models.Bar {
	rng := rand.New(rand.NewSource(seed))
	bars := make([]*models.Bar, n)
	price := 100.0
	for i := range bars {
		open := price
		price *= math.Exp(rng.NormFloat64() * 0.01)
		cls := price
		high := math.Max(open, cls) * (1 + rng.Float64()*0.005 + 0.0005)
		low := math.Min(open, cls) * (1 - rng.Float64()*0.005 - 0.0005)
		bars[i] = &models.Bar{
			Symbol:    "SYN",
			Timeframe: "1m",
			Timestamp: SyntheticStart.Add(time.Duration(i) * time.Minute),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     cls,
			Volume:    math.Round(1000 + rng.Float64()*9000),
		}
	}
	return bars
}

// Fields splits bars into per-field slices, the layout batch reference
// libraries take.
type Fields struct {
	Open, High, Low, Close, Volume []float64
}

// FieldsOf extracts the fields of bars.
func FieldsOf(bars []*models.Bar) Fields {
	f := Fields{
		Open:   make([]float64, len(bars)),
		High:   make([]float64, len(bars)),
		Low:    make([]float64, len(bars)),
		Close:  make([]float64, len(bars)),
		Volume: make([]float64, len(bars)),
	}
	for i, b := range bars {
		f.Open[i] = b.Open
		f.High[i] = b.High
		f.Low[i] = b.Low
		f.Close[i] = b.Close
		f.Volume[i] = b.Volume
	}
	return f
}

// withMissing returns a copy of bars with bar k replaced by a missing bar.
func withMissing(bars []*models.Bar, k int) []*models.Bar {
	out := make([]*models.Bar, len(bars))
	copy(out, bars)
	b := bars[k]
	out[k] = models.Missing(b.Symbol, b.Timeframe, b.Timestamp)
	return out
}
