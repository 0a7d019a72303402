package indicator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mohamedkhairy/ta-engine/internal/models"
	indicatorpkg "github.com/mohamedkhairy/ta-engine/pkg/indicator"
	"github.com/mohamedkhairy/ta-engine/pkg/logger"
)

var (
	ErrContextNotFound  = errors.New("context not found")
	ErrTooManyContexts  = errors.New("too many contexts")
	ErrOutOfOrder       = errors.New("bar is not newer than the last bar of its context")
	ErrContextMismatch  = errors.New("bar does not belong to context")
	ErrNoIndicatorsMade = errors.New("no indicators could be created")
)

// OnIndicatorsUpdated is a callback function called after indicators are updated
type OnIndicatorsUpdated func(key models.ContextKey, indicators map[string]float64)

// ContextState is the indicator state of one stream context.
type ContextState struct {
	Key  models.ContextKey
	set  *indicatorpkg.Set
	last *models.Bar
}

// Bars returns the number of bars fed since the context was created or
// last reset.
func (c *ContextState) Bars() int { return c.set.Bars() }

// Engine feeds finalized bars into per-context calculator sets.
//
// An Engine is owned by a single goroutine and does no locking: contexts
// are independent and the caller decides how to spread them over
// goroutines (for example one Engine per worker).
type Engine struct {
	indicatorRegistry   *IndicatorRegistry
	requiredIndicators  map[string]bool
	contexts            map[models.ContextKey]*ContextState
	onIndicatorsUpdated OnIndicatorsUpdated
	maxContexts         int
	metrics             *logger.Metrics
}

// EngineConfig holds configuration for the indicator engine
type EngineConfig struct {
	MaxContexts int // 0 means unlimited
	Metrics     *logger.Metrics
}

// DefaultEngineConfig returns default configuration
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{MaxContexts: 0}
}

// NewEngine creates a new indicator engine
func NewEngine(config EngineConfig, registry *IndicatorRegistry) *Engine {
	return &Engine{
		indicatorRegistry:  registry,
		requiredIndicators: make(map[string]bool),
		contexts:           make(map[models.ContextKey]*ContextState),
		maxContexts:        config.MaxContexts,
		metrics:            config.Metrics,
	}
}

// SetRequiredIndicators sets which indicators new contexts get.
// An empty map means all registered indicators.
func (e *Engine) SetRequiredIndicators(required map[string]bool) {
	e.requiredIndicators = make(map[string]bool, len(required))
	for name, ok := range required {
		e.requiredIndicators[name] = ok
	}
}

// SetOnIndicatorsUpdated sets the callback function called after indicators are updated
func (e *Engine) SetOnIndicatorsUpdated(callback OnIndicatorsUpdated) {
	e.onIndicatorsUpdated = callback
}

// ProcessBar validates bar and feeds it to its context, creating the
// context on first use. Bars of a context must arrive in time order.
func (e *Engine) ProcessBar(bar *models.Bar) error {
	if bar == nil {
		return fmt.Errorf("bar cannot be nil")
	}
	if err := bar.Validate(); err != nil {
		return fmt.Errorf("invalid bar: %w", err)
	}

	state, err := e.context(bar.Key())
	if err != nil {
		return err
	}
	if state.last != nil && !bar.Timestamp.After(state.last.Timestamp) {
		return fmt.Errorf("%w: %s at %s", ErrOutOfOrder, state.Key, bar.Timestamp)
	}

	state.set.Update(bar)
	state.last = bar
	e.metrics.ObserveBar()

	if e.onIndicatorsUpdated != nil {
		if values := state.set.Values(); len(values) > 0 {
			e.onIndicatorsUpdated(state.Key, values)
		}
	}
	return nil
}

// context returns the state for key, creating it if needed.
func (e *Engine) context(key models.ContextKey) (*ContextState, error) {
	if state, ok := e.contexts[key]; ok {
		return state, nil
	}
	if e.maxContexts > 0 && len(e.contexts) >= e.maxContexts {
		return nil, fmt.Errorf("%w: limit %d reached, cannot open %s", ErrTooManyContexts, e.maxContexts, key)
	}

	set := indicatorpkg.NewSet()
	all := len(e.requiredIndicators) == 0
	for _, name := range e.indicatorRegistry.ListAvailable() {
		if !all && !e.requiredIndicators[name] {
			continue
		}
		calc, err := e.indicatorRegistry.Create(name)
		if err != nil {
			logger.Warn("Failed to create calculator",
				logger.String("name", name),
				logger.StreamContext(key),
				logger.ErrorField(err),
			)
			continue
		}
		if err := set.Add(calc); err != nil {
			logger.Warn("Failed to add calculator",
				logger.String("name", name),
				logger.StreamContext(key),
				logger.ErrorField(err),
			)
		}
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoIndicatorsMade, key)
	}

	state := &ContextState{Key: key, set: set}
	e.contexts[key] = state
	e.metrics.SetContexts(len(e.contexts))
	logger.Debug("Opened context",
		logger.StreamContext(key),
		logger.Int("indicators", set.Len()),
	)
	return state, nil
}

func (e *Engine) lookup(key models.ContextKey) (*ContextState, error) {
	state, ok := e.contexts[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContextNotFound, key)
	}
	return state, nil
}

// Values returns the latest value of every ready indicator of a context.
func (e *Engine) Values(key models.ContextKey) (map[string]float64, error) {
	state, err := e.lookup(key)
	if err != nil {
		return nil, err
	}
	return state.set.Values(), nil
}

// Readiness returns, per indicator, the bars still needed before its first
// valid output.
func (e *Engine) Readiness(key models.ContextKey) (map[string]int, error) {
	state, err := e.lookup(key)
	if err != nil {
		return nil, err
	}
	return state.set.Readiness(), nil
}

// Context returns the state of a context.
func (e *Engine) Context(key models.ContextKey) (*ContextState, bool) {
	state, ok := e.contexts[key]
	return state, ok
}

// ResetContext returns every indicator of a context to its just-built
// state, as on a session boundary.
func (e *Engine) ResetContext(key models.ContextKey) error {
	state, err := e.lookup(key)
	if err != nil {
		return err
	}
	state.set.Reset()
	state.last = nil
	e.metrics.ObserveReset()
	return nil
}

// DropContext destroys a context. Dropping an unknown context is a no-op.
func (e *Engine) DropContext(key models.ContextKey) {
	if _, ok := e.contexts[key]; !ok {
		return
	}
	delete(e.contexts, key)
	e.metrics.SetContexts(len(e.contexts))
	logger.Debug("Dropped context", logger.StreamContext(key))
}

// Rehydrate rebuilds a context from history: the context is reset and bars
// are replayed in order. Every bar must belong to key and be newer than
// the previous one.
func (e *Engine) Rehydrate(key models.ContextKey, bars []*models.Bar) error {
	for i, bar := range bars {
		if bar == nil {
			return fmt.Errorf("bar %d cannot be nil", i)
		}
		if bar.Key() != key {
			return fmt.Errorf("%w: bar %d is %s, want %s", ErrContextMismatch, i, bar.Key(), key)
		}
		if err := bar.Validate(); err != nil {
			return fmt.Errorf("invalid bar %d: %w", i, err)
		}
		if i > 0 && !bar.Timestamp.After(bars[i-1].Timestamp) {
			return fmt.Errorf("%w: bar %d at %s", ErrOutOfOrder, i, bar.Timestamp)
		}
	}

	state, err := e.context(key)
	if err != nil {
		return err
	}
	state.set.Rehydrate(bars)
	state.last = nil
	if len(bars) > 0 {
		state.last = bars[len(bars)-1]
	}
	e.metrics.ObserveReset()
	logger.Info("Rehydrated context",
		logger.StreamContext(key),
		logger.Int("bars", len(bars)),
		logger.Int("pending", len(state.set.Pending())),
	)
	return nil
}

// Contexts lists the live contexts, sorted by symbol then timeframe.
func (e *Engine) Contexts() []models.ContextKey {
	keys := make([]models.ContextKey, 0, len(e.contexts))
	for key := range e.contexts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Symbol != keys[j].Symbol {
			return keys[i].Symbol < keys[j].Symbol
		}
		return keys[i].Timeframe < keys[j].Timeframe
	})
	return keys
}

// ContextCount returns the number of live contexts.
func (e *Engine) ContextCount() int {
	return len(e.contexts)
}
