package conformance

import (
	"fmt"

	"github.com/mohamedkhairy/ta-engine/internal/models"
	indicatorpkg "github.com/mohamedkhairy/ta-engine/pkg/indicator"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// CrossCheck compares a calculator output with a reference implementation
// from the later of the reference's first defined bar and the end of the
// calculator's warm-up.
func CrossCheck(factory indicatorpkg.Factory, ref Reference, bars []*models.Bar, tol float64) Result {
	calc, err := factory()
	if err != nil {
		res := errorResult(CheckCross, err)
		res.Reference = ref.Name
		return res
	}
	res := newResult(calc, CheckCross)
	res.Reference = ref.Name

	got, ok := outputs(calc, bars)[ref.Output]
	if !ok {
		res.fail("calculator has no output %q", ref.Output)
		return res
	}

	start := ref.Start
	if w := calc.Warmup() - 1; w > start {
		start = w
	}
	// Batch references index past short inputs, so never hand them one.
	if start >= len(bars) {
		res.fail("series of %d bars ends before the first comparable bar %d", len(bars), start)
		return res
	}
	want := ref.Compute(bars)
	if len(want) != len(bars) {
		res.fail("%v", fmt.Errorf("%w: reference returned %d values for %d bars", numeric.ErrLengthMismatch, len(want), len(bars)))
		return res
	}
	for i := start; i < len(bars); i++ {
		res.observe(numeric.Divergence(want[i], got[i]), tol, label(ref.Output, i))
	}
	return res
}
