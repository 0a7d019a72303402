package indicator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mohamedkhairy/ta-engine/internal/models"
	indicatorpkg "github.com/mohamedkhairy/ta-engine/pkg/indicator"
	"github.com/mohamedkhairy/ta-engine/pkg/logger"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// ComputeBatch evaluates the named indicators over bars, one goroutine per
// indicator. Each indicator walks the whole time axis on its own goroutine;
// the axis itself is never split. Multi-output indicators contribute one
// "name.output" series per output. An empty names slice means every
// registered indicator.
//
// Cancellation is checked before each indicator starts; indicators already
// running finish their series.
func (e *Engine) ComputeBatch(ctx context.Context, bars []*models.Bar, names []string) (map[string][]float64, error) {
	ctx, end := logger.StartSpan(ctx, "compute_batch")
	defer end()
	start := time.Now()
	defer func() { e.metrics.ObserveBatch(time.Since(start)) }()

	if len(names) == 0 {
		names = e.indicatorRegistry.ListAvailable()
	}

	type result struct {
		series map[string][]float64
		err    error
	}
	results := make([]result, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, fmt.Errorf("batch cancelled before %s: %w", name, err)
		}
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i].series, results[i].err = e.batchOne(name, bars)
		}(i, name)
	}
	wg.Wait()

	out := make(map[string][]float64)
	for i, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("indicator %s: %w", names[i], r.err)
		}
		for k, v := range r.series {
			out[k] = v
		}
	}

	logger.WithContext(ctx).Debug("Batch computed",
		logger.Int("indicators", len(names)),
		logger.Int("bars", len(bars)),
	)
	return out, nil
}

func (e *Engine) batchOne(name string, bars []*models.Bar) (map[string][]float64, error) {
	calc, err := e.indicatorRegistry.Create(name)
	if err != nil {
		return nil, err
	}
	if m, ok := calc.(indicatorpkg.MultiOutput); ok {
		outs := indicatorpkg.BatchOutputs(m, bars)
		series := make(map[string][]float64, len(outs))
		for out, values := range outs {
			series[name+"."+out] = values
		}
		return series, nil
	}
	return map[string][]float64{name: indicatorpkg.Batch(calc, bars)}, nil
}

// VerifyContext recomputes the indicators of a context in batch over bars,
// which must be exactly the bars the context has consumed, and returns the
// divergence between each streamed value and the batch value at the last
// bar.
func (e *Engine) VerifyContext(ctx context.Context, key models.ContextKey, bars []*models.Bar) (map[string]float64, error) {
	state, err := e.lookup(key)
	if err != nil {
		return nil, err
	}
	if len(bars) != state.Bars() {
		return nil, fmt.Errorf("%w: %s consumed %d bars, got %d", ErrContextMismatch, key, state.Bars(), len(bars))
	}
	for _, bar := range bars {
		if bar != nil && bar.Key() != key {
			return nil, fmt.Errorf("%w: bar of %s in %s", ErrContextMismatch, bar.Key(), key)
		}
	}
	if len(bars) == 0 {
		return map[string]float64{}, nil
	}

	batch, err := e.ComputeBatch(ctx, bars, state.set.Names())
	if err != nil {
		return nil, err
	}
	streamed := state.set.Values()
	divergence := make(map[string]float64, len(batch))
	for name, values := range batch {
		v, ok := streamed[name]
		if !ok {
			v = numeric.Sentinel()
		}
		divergence[name] = numeric.Divergence(values[len(values)-1], v)
	}
	return divergence, nil
}
