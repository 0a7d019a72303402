package indicator

import (
	"fmt"
	"sort"

	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// Set is the group of calculators owned by one stream context (one symbol
// on one timeframe). A Set is driven by a single goroutine and does no
// locking.
type Set struct {
	calculators map[string]Calculator
	order       []string
	bars        int
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{calculators: make(map[string]Calculator)}
}

// Add adds a calculator. Names must be unique within the set.
func (s *Set) Add(calc Calculator) error {
	if calc == nil {
		return fmt.Errorf("calculator cannot be nil")
	}
	name := calc.Name()
	if _, exists := s.calculators[name]; exists {
		return fmt.Errorf("calculator %q already in set", name)
	}
	s.calculators[name] = calc
	s.order = append(s.order, name)
	return nil
}

// Remove drops a calculator.
func (s *Set) Remove(name string) {
	if _, ok := s.calculators[name]; !ok {
		return
	}
	delete(s.calculators, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Get returns a calculator by name.
func (s *Set) Get(name string) (Calculator, bool) {
	c, ok := s.calculators[name]
	return c, ok
}

// Names lists the calculators in insertion order.
func (s *Set) Names() []string {
	return append([]string(nil), s.order...)
}

// Update feeds bar to every calculator.
func (s *Set) Update(bar *models.Bar) {
	for _, name := range s.order {
		s.calculators[name].Update(bar)
	}
	s.bars++
}

// Values returns the latest valid value of every ready calculator. A ready
// calculator whose last output is the sentinel (a missing bar inside its
// window) is left out. Multi-output calculators contribute one
// "name.output" entry per output.
func (s *Set) Values() map[string]float64 {
	values := make(map[string]float64, len(s.calculators))
	for name, calc := range s.calculators {
		if !calc.IsReady() {
			continue
		}
		if m, ok := calc.(MultiOutput); ok {
			for _, out := range m.Outputs() {
				if v := m.Output(out); numeric.IsValid(v) {
					values[name+"."+out] = v
				}
			}
			continue
		}
		if v := calc.Value(); numeric.IsValid(v) {
			values[name] = v
		}
	}
	return values
}

// Readiness reports, per calculator, how many bars its warm-up still needs.
func (s *Set) Readiness() map[string]int {
	r := make(map[string]int, len(s.calculators))
	for name, calc := range s.calculators {
		r[name] = calc.BarsRemaining()
	}
	return r
}

// Pending returns the names of calculators still warming up, sorted.
func (s *Set) Pending() []string {
	var names []string
	for name, calc := range s.calculators {
		if !calc.IsReady() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Bars is the number of bars fed since the last reset.
func (s *Set) Bars() int { return s.bars }

// Len is the number of calculators.
func (s *Set) Len() int { return len(s.calculators) }

// Reset resets every calculator.
func (s *Set) Reset() {
	for _, calc := range s.calculators {
		calc.Reset()
	}
	s.bars = 0
}

// Rehydrate resets the set and replays bars in order, rebuilding the state
// a live stream would have reached.
func (s *Set) Rehydrate(bars []*models.Bar) {
	s.Reset()
	for _, bar := range bars {
		s.Update(bar)
	}
}
