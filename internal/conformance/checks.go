package conformance

import (
	"fmt"
	"math"
	"sort"

	"github.com/mohamedkhairy/ta-engine/internal/models"
	indicatorpkg "github.com/mohamedkhairy/ta-engine/pkg/indicator"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// Check names as they appear in results and metrics.
const (
	CheckParity      = "parity"
	CheckWarmup      = "warmup"
	CheckReset       = "reset"
	CheckSentinel    = "sentinel"
	CheckDeterminism = "determinism"
	CheckCross       = "cross"
)

// Result is the outcome of one check of one indicator.
type Result struct {
	Indicator     string
	Check         string
	Reference     string // oracle name, cross checks only
	Passed        bool
	MaxDivergence float64
	Compared      int
	Detail        string // first failure
}

func newResult(calc indicatorpkg.Calculator, check string) Result {
	return Result{Indicator: calc.Name(), Check: check, Passed: true}
}

func errorResult(check string, err error) Result {
	return Result{Check: check, Detail: err.Error(), MaxDivergence: math.Inf(1)}
}

// fail records the first failure only.
func (r *Result) fail(format string, args ...any) {
	if r.Passed {
		r.Detail = fmt.Sprintf(format, args...)
	}
	r.Passed = false
}

// observe records one comparison.
func (r *Result) observe(d, tol float64, where string) {
	r.Compared++
	if d > r.MaxDivergence {
		r.MaxDivergence = d
	}
	if !(d <= tol) {
		r.fail("%s diverges by %g", where, d)
	}
}

// outputs evaluates calc over bars from its initial state. Single-output
// calculators report under the empty name.
func outputs(calc indicatorpkg.Calculator, bars []*models.Bar) map[string][]float64 {
	calc.Reset()
	return stream(calc, bars)
}

// stream feeds bars without resetting first.
func stream(calc indicatorpkg.Calculator, bars []*models.Bar) map[string][]float64 {
	names := outputNames(calc)
	out := make(map[string][]float64, len(names))
	for _, n := range names {
		out[n] = make([]float64, len(bars))
	}
	for i, bar := range bars {
		calc.Update(bar)
		for n, v := range snapshot(calc) {
			out[n][i] = v
		}
	}
	return out
}

func outputNames(calc indicatorpkg.Calculator) []string {
	if m, ok := calc.(indicatorpkg.MultiOutput); ok {
		return m.Outputs()
	}
	return []string{""}
}

func snapshot(calc indicatorpkg.Calculator) map[string]float64 {
	if m, ok := calc.(indicatorpkg.MultiOutput); ok {
		names := m.Outputs()
		s := make(map[string]float64, len(names))
		for _, n := range names {
			s[n] = m.Output(n)
		}
		return s
	}
	return map[string]float64{"": calc.Value()}
}

func label(output string, i int) string {
	if output == "" {
		return fmt.Sprintf("bar %d", i)
	}
	return fmt.Sprintf("%s at bar %d", output, i)
}

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CheckBatchStreamParity verifies that, for every prefix S[0..n-1], a fresh
// calculator streamed over the prefix ends on the value a batch over the
// whole series reports at n-1. The ready flag returned by the last Update
// must agree with the validity of that value.
func CheckBatchStreamParity(factory indicatorpkg.Factory, bars []*models.Bar, tol float64) Result {
	calc, err := factory()
	if err != nil {
		return errorResult(CheckParity, err)
	}
	res := newResult(calc, CheckParity)
	batch := outputs(calc, bars)
	names := sortedKeys(batch)

	for n := 1; n <= len(bars); n++ {
		fresh, err := factory()
		if err != nil {
			res.fail("factory: %v", err)
			return res
		}
		var ok bool
		for _, bar := range bars[:n] {
			_, ok = fresh.Update(bar)
		}
		got := snapshot(fresh)
		for _, name := range names {
			res.observe(numeric.Divergence(batch[name][n-1], got[name]), tol, label(name, n-1))
		}
		if ok != numeric.IsValid(fresh.Value()) {
			res.fail("ready flag %v disagrees with value %v at bar %d", ok, fresh.Value(), n-1)
		}
	}
	return res
}

// CheckWarmupLength verifies that on fully valid input the first valid
// output appears exactly at bar Warmup()-1 and that BarsRemaining counts
// down to it.
func CheckWarmupLength(factory indicatorpkg.Factory, bars []*models.Bar) Result {
	calc, err := factory()
	if err != nil {
		return errorResult(CheckWarmup, err)
	}
	res := newResult(calc, CheckWarmup)
	w := calc.Warmup()
	if w < 1 {
		res.fail("warm-up %d is below one bar", w)
		return res
	}
	if len(bars) < w {
		res.fail("series of %d bars is shorter than the warm-up %d", len(bars), w)
		return res
	}

	for i, bar := range bars[:w] {
		want := w - i
		if want < 1 {
			want = 1
		}
		if got := calc.BarsRemaining(); got != want {
			res.fail("bars remaining before bar %d: got %d, want %d", i, got, want)
		}
		_, ok := calc.Update(bar)
		res.Compared++
		switch {
		case i < w-1 && ok:
			res.fail("valid output at bar %d, warm-up is %d", i, w)
		case i == w-1 && !ok:
			res.fail("no valid output at bar %d, the end of a %d-bar warm-up", i, w)
		}
	}
	if calc.IsReady() && calc.BarsRemaining() != 0 {
		res.fail("ready calculator reports %d bars remaining", calc.BarsRemaining())
	}
	return res
}

// CheckResetReplay verifies that Reset restores the just-constructed state:
// a used calculator, once reset and replayed, reproduces a fresh one's
// output bit for bit.
func CheckResetReplay(factory indicatorpkg.Factory, bars []*models.Bar) Result {
	fresh, err := factory()
	if err != nil {
		return errorResult(CheckReset, err)
	}
	used, err := factory()
	if err != nil {
		return errorResult(CheckReset, err)
	}
	res := newResult(fresh, CheckReset)
	want := stream(fresh, bars)

	stream(used, bars)
	used.Reset()
	if used.IsReady() {
		res.fail("ready after reset")
	}
	if got := used.BarsRemaining(); got != used.Warmup() {
		res.fail("bars remaining after reset: got %d, want %d", got, used.Warmup())
	}
	if !numeric.IsSentinel(used.Value()) {
		res.fail("value after reset is %v, want the sentinel", used.Value())
	}

	got := stream(used, bars)
	for _, name := range sortedKeys(want) {
		for i := range bars {
			res.observe(numeric.Divergence(want[name][i], got[name][i]), 0, label(name, i))
		}
	}
	return res
}

// CheckSentinelPropagation replaces one bar after the warm-up with a
// missing bar. Earlier outputs must be untouched. From the missing bar on,
// every output must be the sentinel at exactly the offsets of footprint and
// valid at every other offset up to one past the last voided one.
func CheckSentinelPropagation(factory indicatorpkg.Factory, bars []*models.Bar, footprint Footprint) Result {
	calc, err := factory()
	if err != nil {
		return errorResult(CheckSentinel, err)
	}
	res := newResult(calc, CheckSentinel)
	if len(footprint) == 0 || footprint[0] != 0 {
		res.fail("footprint %v does not start at the missing bar", footprint)
		return res
	}
	w := calc.Warmup()
	k := len(bars) / 2
	if k < w || k+footprint.Last()+1 >= len(bars) {
		res.fail("series of %d bars is too short for warm-up %d and footprint %v", len(bars), w, footprint)
		return res
	}

	clean := outputs(calc, bars)
	dirty := outputs(calc, withMissing(bars, k))
	names := sortedKeys(clean)

	for _, name := range names {
		for i := 0; i < k; i++ {
			res.observe(numeric.Divergence(clean[name][i], dirty[name][i]), 0, label(name, i))
		}
		for o := 0; o <= footprint.Last()+1; o++ {
			v := dirty[name][k+o]
			res.Compared++
			switch voided := footprint.Contains(o); {
			case voided && !numeric.IsSentinel(v):
				res.fail("%s is %v, %d bars after the missing bar; want the sentinel", label(name, k+o), v, o)
			case !voided && !numeric.IsValid(v):
				res.fail("%s is %v, %d bars after the missing bar; want a valid value", label(name, k+o), v, o)
			}
		}
	}
	return res
}

// CheckDeterministic verifies that independent instances built by the same
// factory produce bit-identical output, whatever the other instance was fed
// before.
func CheckDeterministic(factory indicatorpkg.Factory, bars []*models.Bar) Result {
	a, err := factory()
	if err != nil {
		return errorResult(CheckDeterminism, err)
	}
	b, err := factory()
	if err != nil {
		return errorResult(CheckDeterminism, err)
	}
	res := newResult(a, CheckDeterminism)

	reversed := make([]*models.Bar, len(bars))
	for i, bar := range bars {
		reversed[len(bars)-1-i] = bar
	}
	stream(a, reversed)

	first := stream(b, bars)
	second := outputs(a, bars)
	for _, name := range sortedKeys(first) {
		for i := range bars {
			res.observe(numeric.Divergence(first[name][i], second[name][i]), 0, label(name, i))
		}
	}
	return res
}
