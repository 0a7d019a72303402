package conformance

import (
	"context"
	"fmt"
	"sort"

	engine "github.com/mohamedkhairy/ta-engine/internal/indicator"
	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/filter"
	indicatorpkg "github.com/mohamedkhairy/ta-engine/pkg/indicator"
)

// Case is one indicator under test.
type Case struct {
	Name       string
	Factory    indicatorpkg.Factory
	Footprint  Footprint // outputs voided by one missing bar
	References []Reference
}

// Suite runs every check over a set of cases.
type Suite struct {
	Tolerance      float64 // batch/stream parity
	CrossTolerance float64 // against reference implementations
	CrossCheck     bool
	Cases          []Case
}

// Report collects the results of a suite run.
type Report struct {
	Bars    int
	Results []Result
}

// Run checks every case over bars. Cancellation is honoured between cases.
func (s *Suite) Run(ctx context.Context, bars []*models.Bar) (Report, error) {
	report := Report{Bars: len(bars)}
	for _, c := range s.Cases {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Results = append(report.Results, s.runCase(c, bars)...)
	}
	return report, nil
}

func (s *Suite) runCase(c Case, bars []*models.Bar) []Result {
	results := []Result{
		CheckBatchStreamParity(c.Factory, bars, s.Tolerance),
		CheckWarmupLength(c.Factory, bars),
		CheckResetReplay(c.Factory, bars),
		CheckSentinelPropagation(c.Factory, bars, c.Footprint),
		CheckDeterministic(c.Factory, bars),
	}
	if s.CrossCheck {
		for _, ref := range c.References {
			results = append(results, CrossCheck(c.Factory, ref, bars, s.CrossTolerance))
		}
	}
	for i := range results {
		if results[i].Indicator == "" {
			results[i].Indicator = c.Name
		}
	}
	return results
}

// Passed reports whether every check passed.
func (r Report) Passed() bool {
	return len(r.Failures()) == 0
}

// Failures returns the failed results.
func (r Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.Passed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Indicators lists the indicators in the report, sorted.
func (r Report) Indicators() []string {
	seen := make(map[string]bool)
	var names []string
	for _, res := range r.Results {
		if !seen[res.Indicator] {
			seen[res.Indicator] = true
			names = append(names, res.Indicator)
		}
	}
	sort.Strings(names)
	return names
}

// ForIndicator returns the results of one indicator.
func (r Report) ForIndicator(name string) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Indicator == name {
			out = append(out, res)
		}
	}
	return out
}

// MaxDivergence is the largest divergence any check of the indicator saw.
func (r Report) MaxDivergence(name string) float64 {
	var worst float64
	for _, res := range r.ForIndicator(name) {
		if res.MaxDivergence > worst {
			worst = res.MaxDivergence
		}
	}
	return worst
}

// CasesFromSpecs builds one case per indicator spec, with its missing-bar
// footprint and the reference implementations that apply to it.
func CasesFromSpecs(specs []engine.Spec) ([]Case, error) {
	cases := make([]Case, 0, len(specs))
	for _, spec := range specs {
		factory, err := engine.BuildFactory(spec)
		if err != nil {
			return nil, fmt.Errorf("indicator %s: %w", spec.Type, err)
		}
		calc, err := factory()
		if err != nil {
			return nil, err
		}
		footprint, err := FootprintFor(spec)
		if err != nil {
			return nil, err
		}
		cases = append(cases, Case{
			Name:       calc.Name(),
			Factory:    factory,
			Footprint:  footprint,
			References: ReferencesFor(spec),
		})
	}
	return cases, nil
}

// ReferencesFor returns the reference implementations matching spec. The
// references compute on closes with SMA-seeded recursions, so specs using
// another source, seed mode or moving-average kind have none.
func ReferencesFor(spec engine.Spec) []Reference {
	if spec.Source != "" && spec.Source != indicatorpkg.Close.String() {
		return nil
	}
	if seed, ok := filter.ParseSeedMode(spec.Seed); !ok || seed != filter.SeedRollingMean {
		return nil
	}
	ma := spec.MA
	if ma == "" {
		ma = indicatorpkg.SMA.String()
	}

	p := spec.Period
	switch spec.Type {
	case engine.TypeSMA:
		return []Reference{TalibSMA(p), TechanSMA(p)}
	case engine.TypeEMA:
		return []Reference{TalibEMA(p), TechanEMA(p)}
	case engine.TypeWMA:
		return []Reference{TalibWMA(p)}
	case engine.TypeDEMA:
		return []Reference{TalibDEMA(p)}
	case engine.TypeTEMA:
		return []Reference{TalibTEMA(p)}
	case engine.TypeT3:
		return []Reference{TalibT3(p, spec.VFactor)}
	case engine.TypeTRIX:
		return []Reference{TalibTRIX(p)}
	case engine.TypeMACD:
		return []Reference{
			TalibMACD(spec.Fast, spec.Slow, spec.Signal, indicatorpkg.OutMACD),
			TalibMACD(spec.Fast, spec.Slow, spec.Signal, indicatorpkg.OutSignal),
			TalibMACD(spec.Fast, spec.Slow, spec.Signal, indicatorpkg.OutHistogram),
		}
	case engine.TypeBollinger:
		if ma != indicatorpkg.SMA.String() {
			return nil
		}
		return []Reference{
			TalibBBands(p, spec.Multiplier, indicatorpkg.OutBasis),
			TalibBBands(p, spec.Multiplier, indicatorpkg.OutUpper),
			TalibBBands(p, spec.Multiplier, indicatorpkg.OutLower),
			TalibBBands(p, spec.Multiplier, indicatorpkg.OutWidth),
		}
	case engine.TypeKeltner:
		if ma != indicatorpkg.EMA.String() {
			return nil
		}
		return []Reference{
			TalibKeltner(p, spec.Lookback, spec.Multiplier, indicatorpkg.OutBasis),
			TalibKeltner(p, spec.Lookback, spec.Multiplier, indicatorpkg.OutUpper),
			TalibKeltner(p, spec.Lookback, spec.Multiplier, indicatorpkg.OutLower),
		}
	case engine.TypeDonchian:
		return []Reference{
			TalibDonchian(p, indicatorpkg.OutMiddle),
			TalibDonchian(p, indicatorpkg.OutUpper),
			TalibDonchian(p, indicatorpkg.OutLower),
		}
	case engine.TypeTrueRange:
		return []Reference{TalibTrueRange()}
	case engine.TypeATR:
		return []Reference{TalibATR(p)}
	case engine.TypeNATR:
		return []Reference{TalibNATR(p)}
	case engine.TypeKAMA:
		if spec.Fast != 0 || spec.Slow != 0 {
			return nil
		}
		return []Reference{TalibKAMA(p)}
	case engine.TypeRSI:
		return []Reference{TalibRSI(p)}
	case engine.TypeStochastic:
		return []Reference{
			TalibStoch(p, spec.Smooth, spec.Signal, indicatorpkg.OutK),
			TalibStoch(p, spec.Smooth, spec.Signal, indicatorpkg.OutD),
		}
	case engine.TypeZScore:
		return []Reference{TalibZScore(p)}
	case engine.TypeROC:
		return []Reference{TalibROC(p)}
	case engine.TypeRangeROC:
		if ma != indicatorpkg.SMA.String() {
			return nil
		}
		return []Reference{TalibRangeROC(p, spec.Lookback)}
	case engine.TypeLinReg:
		switch spec.Output {
		case "", "endpoint":
			return []Reference{TalibLinearReg(p)}
		case "slope":
			return []Reference{TalibLinearRegSlope(p)}
		}
	case engine.TypeVWAP:
		return []Reference{TalibVWAP(p)}
	case engine.TypeVolumeAvg:
		return []Reference{TalibVolumeAverage(p)}
	case engine.TypeRVOL:
		return []Reference{TalibRelativeVolume(p)}
	}
	return nil
}
