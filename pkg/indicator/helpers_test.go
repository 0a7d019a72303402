package indicator

import (
	"math"
	"time"

	"github.com/mohamedkhairy/ta-engine/internal/models"
)

var nan = math.NaN()

var testStart = time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)

// closeBar builds the i-th one-minute AAPL bar whose prices all equal c.
func closeBar(i int, c float64) *models.Bar {
	return &models.Bar{
		Symbol:    "AAPL",
		Timeframe: "1m",
		Timestamp: testStart.Add(time.Duration(i) * time.Minute),
		Open:      c,
		High:      c,
		Low:       c,
		Close:     c,
		Volume:    1000,
	}
}

func closeBars(xs ...float64) []*models.Bar {
	bars := make([]*models.Bar, len(xs))
	for i, x := range xs {
		bars[i] = closeBar(i, x)
	}
	return bars
}

// ohlcBar builds a bar from explicit high, low and close.
func ohlcBar(i int, high, low, cls float64) *models.Bar {
	b := closeBar(i, cls)
	b.Open = cls
	b.High = high
	b.Low = low
	return b
}

// walk is a small deterministic zig-zag series used where exact values do
// not matter.
func walk(n int) []*models.Bar {
	bars := make([]*models.Bar, n)
	price := 100.0
	for i := range bars {
		price += math.Sin(float64(i)*0.7)*1.5 + 0.1
		bars[i] = ohlcBar(i, price+1+math.Abs(math.Cos(float64(i))), price-1, price)
		bars[i].Volume = 1000 + float64(i%7)*150
	}
	return bars
}

func sameValue(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}
