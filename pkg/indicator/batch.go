package indicator

import "github.com/mohamedkhairy/ta-engine/internal/models"

// Batch resets calc and computes its value for every bar. Output index t
// is the value streamed after bar t.
func Batch(calc Calculator, bars []*models.Bar) []float64 {
	calc.Reset()
	out := make([]float64, len(bars))
	for i, bar := range bars {
		out[i], _ = calc.Update(bar)
	}
	return out
}

// BatchOutputs is Batch for every output of a multi-output indicator.
func BatchOutputs(calc MultiOutput, bars []*models.Bar) map[string][]float64 {
	calc.Reset()
	names := calc.Outputs()
	out := make(map[string][]float64, len(names))
	for _, n := range names {
		out[n] = make([]float64, len(bars))
	}
	for i, bar := range bars {
		calc.Update(bar)
		for _, n := range names {
			out[n][i] = calc.Output(n)
		}
	}
	return out
}

// Replay resets calc and streams bars through it, leaving calc in the
// state a live stream would have after the last bar.
func Replay(calc Calculator, bars []*models.Bar) (float64, bool) {
	calc.Reset()
	v, ok := calc.Value(), false
	for _, bar := range bars {
		v, ok = calc.Update(bar)
	}
	return v, ok
}
