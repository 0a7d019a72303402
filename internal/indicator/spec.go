package indicator

import (
	"fmt"

	"github.com/mohamedkhairy/ta-engine/pkg/filter"
	indicatorpkg "github.com/mohamedkhairy/ta-engine/pkg/indicator"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/mohamedkhairy/ta-engine/pkg/window"
)

// Spec describes one indicator instance in an indicator-set file.
// Fields that a type does not use are ignored.
type Spec struct {
	Type       string  `yaml:"type"`
	Period     int     `yaml:"period,omitempty"`
	Fast       int     `yaml:"fast,omitempty"`
	Slow       int     `yaml:"slow,omitempty"`
	Signal     int     `yaml:"signal,omitempty"`
	Smooth     int     `yaml:"smooth,omitempty"`
	Lookback   int     `yaml:"lookback,omitempty"`
	Multiplier float64 `yaml:"multiplier,omitempty"`
	VFactor    float64 `yaml:"vfactor,omitempty"`
	MA         string  `yaml:"ma,omitempty"`
	Source     string  `yaml:"source,omitempty"`
	Seed       string  `yaml:"seed,omitempty"`
	Output     string  `yaml:"output,omitempty"`
}

// Indicator types understood by BuildFactory.
const (
	TypeSMA        = "sma"
	TypeEMA        = "ema"
	TypeRMA        = "rma"
	TypeWMA        = "wma"
	TypeDEMA       = "dema"
	TypeTEMA       = "tema"
	TypeT3         = "t3"
	TypeTRIX       = "trix"
	TypeMACD       = "macd"
	TypeBollinger  = "bollinger"
	TypeKeltner    = "keltner"
	TypeDonchian   = "donchian"
	TypeTrueRange  = "true_range"
	TypeATR        = "atr"
	TypeNATR       = "natr"
	TypeKAMA       = "kama"
	TypeRSI        = "rsi"
	TypeStochastic = "stochastic"
	TypeZScore     = "zscore"
	TypeROC        = "roc"
	TypeRangeROC   = "range_roc"
	TypeLinReg     = "linreg"
	TypeMedian     = "median"
	TypeVWAP       = "vwap"
	TypeVolumeAvg  = "volume_avg"
	TypeRVOL       = "rvol"
)

var categories = map[string]string{
	TypeSMA:        "trend",
	TypeEMA:        "trend",
	TypeRMA:        "trend",
	TypeWMA:        "trend",
	TypeDEMA:       "trend",
	TypeTEMA:       "trend",
	TypeT3:         "trend",
	TypeKAMA:       "trend",
	TypeLinReg:     "trend",
	TypeMedian:     "trend",
	TypeMACD:       "momentum",
	TypeTRIX:       "momentum",
	TypeRSI:        "momentum",
	TypeStochastic: "momentum",
	TypeROC:        "momentum",
	TypeZScore:     "momentum",
	TypeBollinger:  "volatility",
	TypeKeltner:    "volatility",
	TypeDonchian:   "volatility",
	TypeTrueRange:  "volatility",
	TypeATR:        "volatility",
	TypeNATR:       "volatility",
	TypeRangeROC:   "volatility",
	TypeVWAP:       "price",
	TypeVolumeAvg:  "volume",
	TypeRVOL:       "volume",
}

// Category returns the metadata category of the spec's type.
func (s Spec) Category() string {
	return categories[s.Type]
}

// BuildFactory validates spec and returns a factory for it. The factory is
// invoked once here so parameter errors surface at load time rather than
// when the first context is created.
func BuildFactory(spec Spec) (indicatorpkg.Factory, error) {
	if _, ok := categories[spec.Type]; !ok {
		return nil, fmt.Errorf("%w: unknown indicator type %q", numeric.ErrInvalidKind, spec.Type)
	}
	source, err := indicatorpkg.ParseSource(spec.Source)
	if err != nil {
		return nil, err
	}
	seed, ok := filter.ParseSeedMode(spec.Seed)
	if !ok {
		return nil, fmt.Errorf("%w: %q", numeric.ErrInvalidSeedMode, spec.Seed)
	}
	kind := indicatorpkg.SMA
	if spec.MA != "" {
		if kind, err = indicatorpkg.ParseMAKind(spec.MA); err != nil {
			return nil, err
		}
	}
	output, ok := window.ParseRegressionOutput(spec.Output)
	if !ok {
		return nil, fmt.Errorf("%w: unknown regression output %q", numeric.ErrInvalidKind, spec.Output)
	}

	factory := func() (indicatorpkg.Calculator, error) {
		return build(spec, source, seed, kind, output)
	}
	if _, err := factory(); err != nil {
		return nil, fmt.Errorf("indicator %s: %w", spec.Type, err)
	}
	return factory, nil
}

func build(s Spec, source indicatorpkg.Source, seed filter.SeedMode, kind indicatorpkg.MAKind, output window.RegressionOutput) (indicatorpkg.Calculator, error) {
	switch s.Type {
	case TypeSMA:
		return indicatorpkg.NewSMA(s.Period, source)
	case TypeEMA:
		return indicatorpkg.NewEMA(s.Period, source, seed)
	case TypeRMA:
		return indicatorpkg.NewRMA(s.Period, source, seed)
	case TypeWMA:
		return indicatorpkg.NewWMA(s.Period, source)
	case TypeDEMA:
		return indicatorpkg.NewDEMA(s.Period, source, seed)
	case TypeTEMA:
		return indicatorpkg.NewTEMA(s.Period, source, seed)
	case TypeT3:
		return indicatorpkg.NewT3(s.Period, s.VFactor, source, seed)
	case TypeTRIX:
		return indicatorpkg.NewTRIX(s.Period, source, seed)
	case TypeMACD:
		return indicatorpkg.NewMACD(s.Fast, s.Slow, s.Signal, source, seed)
	case TypeBollinger:
		return indicatorpkg.NewBollinger(s.Period, s.Multiplier, kind, source, seed)
	case TypeKeltner:
		return indicatorpkg.NewKeltner(s.Period, s.Lookback, s.Multiplier, kind, source, seed)
	case TypeDonchian:
		return indicatorpkg.NewDonchian(s.Period)
	case TypeTrueRange:
		return indicatorpkg.NewTrueRange(), nil
	case TypeATR:
		return indicatorpkg.NewATR(s.Period, seed)
	case TypeNATR:
		return indicatorpkg.NewNATR(s.Period, seed)
	case TypeKAMA:
		if s.Fast == 0 && s.Slow == 0 {
			return indicatorpkg.NewKAMA(s.Period, source)
		}
		return indicatorpkg.NewKAMAWithConstants(s.Period, s.Fast, s.Slow, source)
	case TypeRSI:
		return indicatorpkg.NewRSI(s.Period, source, seed)
	case TypeStochastic:
		return indicatorpkg.NewStochastic(s.Period, s.Smooth, s.Signal)
	case TypeZScore:
		return indicatorpkg.NewZScore(s.Period, source)
	case TypeROC:
		return indicatorpkg.NewROC(s.Period, source)
	case TypeRangeROC:
		return indicatorpkg.NewRangeROC(s.Period, s.Lookback, kind, seed)
	case TypeLinReg:
		return indicatorpkg.NewLinearRegression(s.Period, output, source)
	case TypeMedian:
		return indicatorpkg.NewMedian(s.Period, source)
	case TypeVWAP:
		return indicatorpkg.NewVWAP(s.Period)
	case TypeVolumeAvg:
		return indicatorpkg.NewVolumeAverage(s.Period)
	case TypeRVOL:
		return indicatorpkg.NewRelativeVolume(s.Period)
	}
	return nil, fmt.Errorf("%w: unknown indicator type %q", numeric.ErrInvalidKind, s.Type)
}

// DefaultSpecs is the indicator set used when no file is configured.
func DefaultSpecs() []Spec {
	return []Spec{
		{Type: TypeSMA, Period: 20},
		{Type: TypeSMA, Period: 50},
		{Type: TypeEMA, Period: 12},
		{Type: TypeEMA, Period: 26},
		{Type: TypeRMA, Period: 14},
		{Type: TypeWMA, Period: 10},
		{Type: TypeDEMA, Period: 10},
		{Type: TypeTEMA, Period: 10},
		{Type: TypeT3, Period: 5, VFactor: 0.7},
		{Type: TypeTRIX, Period: 15},
		{Type: TypeMACD, Fast: 12, Slow: 26, Signal: 9},
		{Type: TypeBollinger, Period: 20, Multiplier: 2},
		{Type: TypeKeltner, Period: 20, Lookback: 10, Multiplier: 2, MA: "ema"},
		{Type: TypeDonchian, Period: 20},
		{Type: TypeTrueRange},
		{Type: TypeATR, Period: 14},
		{Type: TypeNATR, Period: 14},
		{Type: TypeKAMA, Period: 10},
		{Type: TypeRSI, Period: 14},
		{Type: TypeStochastic, Period: 14, Smooth: 3, Signal: 3},
		{Type: TypeZScore, Period: 20},
		{Type: TypeROC, Period: 10},
		{Type: TypeRangeROC, Period: 14, Lookback: 5},
		{Type: TypeLinReg, Period: 14},
		{Type: TypeLinReg, Period: 14, Output: "slope"},
		{Type: TypeMedian, Period: 9},
		{Type: TypeVWAP, Period: 20},
		{Type: TypeVolumeAvg, Period: 20},
		{Type: TypeRVOL, Period: 20},
	}
}
