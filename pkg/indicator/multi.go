package indicator

import "github.com/mohamedkhairy/ta-engine/pkg/numeric"

// multi is the bookkeeping of a MultiOutput indicator. Outputs are
// published together: if one is invalid they all read as the sentinel.
type multi struct {
	base
	names []string
	outs  []float64
}

func newMulti(name string, warmup int, names ...string) multi {
	m := multi{base: newBase(name, warmup), names: names, outs: make([]float64, len(names))}
	m.clearOutputs()
	return m
}

// Outputs lists the output names, primary first.
func (m *multi) Outputs() []string {
	return append([]string(nil), m.names...)
}

// Output returns the latest value of the named output.
func (m *multi) Output(name string) float64 {
	for i, n := range m.names {
		if n == name {
			return m.outs[i]
		}
	}
	return numeric.Sentinel()
}

// publish stores one value per output; the first is the primary value.
func (m *multi) publish(vals ...float64) (float64, bool) {
	if !numeric.AllValid(vals...) {
		m.clearOutputs()
		return m.record(numeric.Sentinel(), false)
	}
	copy(m.outs, vals)
	return m.record(vals[0], true)
}

func (m *multi) clearOutputs() {
	for i := range m.outs {
		m.outs[i] = numeric.Sentinel()
	}
}

func (m *multi) resetMulti() {
	m.resetBase()
	m.clearOutputs()
}
