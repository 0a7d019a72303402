// Package series defines the single-input stage contract shared by the
// recursive filters and the windowed statistics, and the batch runner that
// derives a whole output series from the streaming update.
package series

import (
	"fmt"

	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// Stage is a stateful one-sample-at-a-time transformer.
type Stage interface {
	// Update consumes one sample and returns the new output and whether
	// it is valid. Invalid outputs are the sentinel.
	Update(x float64) (float64, bool)

	// Reset returns the stage to its just-constructed state.
	Reset()

	// Warmup is the number of valid samples consumed before the first
	// valid output. It is derived from parameters, not from running.
	Warmup() int
}

// Run resets stage and feeds it the whole series, returning the parallel
// output series. Batch results are defined by the streaming update, so the
// two paths cannot diverge.
func Run(stage Stage, xs []float64) []float64 {
	stage.Reset()
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i], _ = stage.Update(x)
	}
	return out
}

// Chain feeds the output of each stage into the next.
func Chain(stages ...Stage) Stage {
	return &chain{stages: stages}
}

type chain struct {
	stages []Stage
}

func (c *chain) Update(x float64) (float64, bool) {
	ok := true
	for _, s := range c.stages {
		x, ok = s.Update(x)
	}
	return x, ok
}

func (c *chain) Reset() {
	for _, s := range c.stages {
		s.Reset()
	}
}

// Warmup of a chain is the sum of stage warm-ups minus the one-sample seam
// shared by each adjacent pair.
func (c *chain) Warmup() int {
	return ChainWarmup(c.warmups()...)
}

func (c *chain) warmups() []int {
	w := make([]int, len(c.stages))
	for i, s := range c.stages {
		w[i] = s.Warmup()
	}
	return w
}

// ChainWarmup is sum(w) - (len(w)-1): stages overlap by one valid sample.
func ChainWarmup(w ...int) int {
	if len(w) == 0 {
		return 0
	}
	total := 0
	for _, x := range w {
		total += x
	}
	return total - (len(w) - 1)
}

// ParallelWarmup is the warm-up of independent branches combined at the
// end: the slowest branch decides.
func ParallelWarmup(w ...int) int {
	m := 0
	for _, x := range w {
		if x > m {
			m = x
		}
	}
	return m
}

// CheckLengths rejects batch inputs whose lengths differ.
func CheckLengths(xs ...[]float64) error {
	if len(xs) == 0 {
		return nil
	}
	n := len(xs[0])
	for i, x := range xs[1:] {
		if len(x) != n {
			return fmt.Errorf("%w: series %d has %d samples, want %d", numeric.ErrLengthMismatch, i+1, len(x), n)
		}
	}
	return nil
}
