package conformance

import (
	"math"

	talib "github.com/markcheno/go-talib"

	"github.com/mohamedkhairy/ta-engine/internal/models"
)

// Reference is an independent batch implementation of one indicator output.
// Outputs before Start are undefined in the reference and not compared.
type Reference struct {
	Name    string // e.g. "talib.Sma"
	Output  string // calculator output; empty for single-output calculators
	Start   int
	Compute func(bars []*models.Bar) []float64
}

func talibRef(name, output string, start int, fn func(f Fields) []float64) Reference {
	return Reference{
		Name:   "talib." + name,
		Output: output,
		Start:  start,
		Compute: func(bars []*models.Bar) []float64 {
			return fn(FieldsOf(bars))
		},
	}
}

func TalibSMA(period int) Reference {
	return talibRef("Sma", "", period-1, func(f Fields) []float64 {
		return talib.Sma(f.Close, period)
	})
}

func TalibEMA(period int) Reference {
	return talibRef("Ema", "", period-1, func(f Fields) []float64 {
		return talib.Ema(f.Close, period)
	})
}

func TalibWMA(period int) Reference {
	return talibRef("Wma", "", period-1, func(f Fields) []float64 {
		return talib.Wma(f.Close, period)
	})
}

func TalibDEMA(period int) Reference {
	return talibRef("Dema", "", 2*(period-1), func(f Fields) []float64 {
		return talib.Dema(f.Close, period)
	})
}

func TalibTEMA(period int) Reference {
	return talibRef("Tema", "", 3*(period-1), func(f Fields) []float64 {
		return talib.Tema(f.Close, period)
	})
}

func TalibT3(period int, vFactor float64) Reference {
	return talibRef("T3", "", 6*(period-1), func(f Fields) []float64 {
		return talib.T3(f.Close, period, vFactor)
	})
}

func TalibTRIX(period int) Reference {
	return talibRef("Trix", "", 3*(period-1)+1, func(f Fields) []float64 {
		return talib.Trix(f.Close, period)
	})
}

func TalibKAMA(period int) Reference {
	return talibRef("Kama", "", period, func(f Fields) []float64 {
		return talib.Kama(f.Close, period)
	})
}

func TalibRSI(period int) Reference {
	return talibRef("Rsi", "", period, func(f Fields) []float64 {
		return talib.Rsi(f.Close, period)
	})
}

func TalibTrueRange() Reference {
	return talibRef("TRange", "", 1, func(f Fields) []float64 {
		return talib.TRange(f.High, f.Low, f.Close)
	})
}

func TalibATR(period int) Reference {
	return talibRef("Atr", "", period, func(f Fields) []float64 {
		return talib.Atr(f.High, f.Low, f.Close, period)
	})
}

func TalibNATR(period int) Reference {
	return talibRef("Natr", "", period, func(f Fields) []float64 {
		return talib.Natr(f.High, f.Low, f.Close, period)
	})
}

func TalibROC(period int) Reference {
	return talibRef("Roc", "", period, func(f Fields) []float64 {
		return talib.Roc(f.Close, period)
	})
}

func TalibLinearReg(period int) Reference {
	return talibRef("LinearReg", "", period-1, func(f Fields) []float64 {
		return talib.LinearReg(f.Close, period)
	})
}

func TalibLinearRegSlope(period int) Reference {
	return talibRef("LinearRegSlope", "", period-1, func(f Fields) []float64 {
		return talib.LinearRegSlope(f.Close, period)
	})
}

// TalibMACD compares one MACD output. TA-Lib seeds the fast EMA at the slow
// EMA's first bar, so early values differ by a decaying amount; comparison
// starts once that difference is far below any tolerance.
func TalibMACD(fast, slow, signal int, output string) Reference {
	start := slow + signal + 15*fast
	return talibRef("Macd", output, start, func(f Fields) []float64 {
		macd, sig, hist := talib.Macd(f.Close, fast, slow, signal)
		switch output {
		case "signal":
			return sig
		case "histogram":
			return hist
		}
		return macd
	})
}

// TalibBBands compares one Bollinger output of the SMA-based bands.
// The width is rebuilt from talib.StdDev.
func TalibBBands(period int, k float64, output string) Reference {
	name := "BBands"
	if output == "width" {
		name = "StdDev"
	}
	return talibRef(name, output, period-1, func(f Fields) []float64 {
		if output == "width" {
			sd := talib.StdDev(f.Close, period, 1)
			out := make([]float64, len(sd))
			for i, v := range sd {
				out[i] = 2 * k * v
			}
			return out
		}
		upper, middle, lower := talib.BBands(f.Close, period, k, k, talib.SMA)
		switch output {
		case "upper":
			return upper
		case "lower":
			return lower
		}
		return middle
	})
}

// TalibKeltner compares one Keltner output of the EMA-basis, ATR-width
// channel.
func TalibKeltner(period, atrPeriod int, k float64, output string) Reference {
	start := period - 1
	if atrPeriod > start {
		start = atrPeriod
	}
	return talibRef("Ema+Atr", output, start, func(f Fields) []float64 {
		basis := talib.Ema(f.Close, period)
		atr := talib.Atr(f.High, f.Low, f.Close, atrPeriod)
		out := make([]float64, len(basis))
		for i := range out {
			switch output {
			case "upper":
				out[i] = basis[i] + k*atr[i]
			case "lower":
				out[i] = basis[i] - k*atr[i]
			case "width":
				out[i] = 2 * k * atr[i]
			default:
				out[i] = basis[i]
			}
		}
		return out
	})
}

// TalibDonchian compares one Donchian output, built from rolling Max/Min.
func TalibDonchian(period int, output string) Reference {
	return talibRef("Max/Min", output, period-1, func(f Fields) []float64 {
		hi := talib.Max(f.High, period)
		lo := talib.Min(f.Low, period)
		out := make([]float64, len(hi))
		for i := range out {
			switch output {
			case "upper":
				out[i] = hi[i]
			case "lower":
				out[i] = lo[i]
			case "width":
				out[i] = hi[i] - lo[i]
			default:
				out[i] = (hi[i] + lo[i]) / 2
			}
		}
		return out
	})
}

// TalibStoch compares %K or %D of the SMA-smoothed stochastic.
func TalibStoch(kPeriod, smoothK, dPeriod int, output string) Reference {
	start := kPeriod - 1 + smoothK - 1 + dPeriod - 1
	return talibRef("Stoch", output, start, func(f Fields) []float64 {
		k, d := talib.Stoch(f.High, f.Low, f.Close, kPeriod, smoothK, talib.SMA, dPeriod, talib.SMA)
		if output == "d" {
			return d
		}
		return k
	})
}

// TalibZScore rebuilds the z-score from talib.Sma and talib.Var.
func TalibZScore(period int) Reference {
	return talibRef("Sma/Var", "", period-1, func(f Fields) []float64 {
		mean := talib.Sma(f.Close, period)
		variance := talib.Var(f.Close, period)
		out := make([]float64, len(mean))
		for i := range out {
			out[i] = (f.Close[i] - mean[i]) / math.Sqrt(variance[i])
		}
		return out
	})
}

// TalibRangeROC rebuilds the range rate of change from Sma and Roc.
func TalibRangeROC(period, lookback int) Reference {
	return talibRef("Sma+Roc", "", period-1+lookback, func(f Fields) []float64 {
		rng := make([]float64, len(f.High))
		for i := range rng {
			rng[i] = f.High[i] - f.Low[i]
		}
		return talib.Roc(talib.Sma(rng, period), lookback)
	})
}

// TalibVWAP rebuilds the rolling VWAP from TypPrice and Sum.
func TalibVWAP(period int) Reference {
	return talibRef("TypPrice+Sum", "", period-1, func(f Fields) []float64 {
		tp := talib.TypPrice(f.High, f.Low, f.Close)
		pv := make([]float64, len(tp))
		for i := range pv {
			pv[i] = tp[i] * f.Volume[i]
		}
		num := talib.Sum(pv, period)
		den := talib.Sum(f.Volume, period)
		out := make([]float64, len(num))
		for i := range out {
			out[i] = num[i] / den[i]
		}
		return out
	})
}

func TalibVolumeAverage(period int) Reference {
	return talibRef("Sma", "", period-1, func(f Fields) []float64 {
		return talib.Sma(f.Volume, period)
	})
}

func TalibRelativeVolume(period int) Reference {
	return talibRef("Sma", "", period-1, func(f Fields) []float64 {
		avg := talib.Sma(f.Volume, period)
		out := make([]float64, len(avg))
		for i := range out {
			out[i] = f.Volume[i] / avg[i]
		}
		return out
	})
}
