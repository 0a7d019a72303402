package conformance

import (
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"

	"github.com/mohamedkhairy/ta-engine/internal/models"
)

// techanSeries converts bars into a techan TimeSeries. Each bar becomes a
// candle spanning one bar period.
func techanSeries(bars []*models.Bar) *techan.TimeSeries {
	series := techan.NewTimeSeries()
	for i, bar := range bars {
		period := time.Minute
		if i+1 < len(bars) {
			if d := bars[i+1].Timestamp.Sub(bar.Timestamp); d > 0 {
				period = d
			}
		}
		candle := techan.NewCandle(techan.NewTimePeriod(bar.Timestamp, period))
		candle.OpenPrice = big.NewDecimal(bar.Open)
		candle.MaxPrice = big.NewDecimal(bar.High)
		candle.MinPrice = big.NewDecimal(bar.Low)
		candle.ClosePrice = big.NewDecimal(bar.Close)
		candle.Volume = big.NewDecimal(bar.Volume)
		series.AddCandle(candle)
	}
	return series
}

// techanRef evaluates a techan indicator built over the close price at
// every index, oldest first, so its internal cache fills incrementally.
func techanRef(name string, start int, build func(close techan.Indicator) techan.Indicator) Reference {
	return Reference{
		Name:  "techan." + name,
		Start: start,
		Compute: func(bars []*models.Bar) []float64 {
			series := techanSeries(bars)
			ind := build(techan.NewClosePriceIndicator(series))
			out := make([]float64, len(bars))
			for i := range out {
				out[i] = ind.Calculate(i).Float()
			}
			return out
		},
	}
}

// TechanSMA is the decimal simple moving average.
func TechanSMA(period int) Reference {
	return techanRef("SimpleMovingAverage", period-1, func(c techan.Indicator) techan.Indicator {
		return techan.NewSimpleMovingAverage(c, period)
	})
}

// TechanEMA is the decimal exponential moving average. Techan seeds it
// with the simple average of the first period closes.
func TechanEMA(period int) Reference {
	return techanRef("EMA", period-1, func(c techan.Indicator) techan.Indicator {
		return techan.NewEMAIndicator(c, period)
	})
}
