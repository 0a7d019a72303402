package indicator

import (
	"fmt"
	"sync"

	indicatorpkg "github.com/mohamedkhairy/ta-engine/pkg/indicator"
)

// IndicatorRegistry manages all configured indicators: a factory registry
// plus descriptive metadata for each name.
type IndicatorRegistry struct {
	mu        sync.RWMutex
	factories *indicatorpkg.Registry
	metadata  map[string]IndicatorMetadata
}

// IndicatorMetadata contains information about an indicator
type IndicatorMetadata struct {
	Name     string
	Type     string
	Category string // "momentum", "trend", "volatility", "volume", "price"
	Outputs  []string
	Warmup   int
	Spec     Spec
}

// NewIndicatorRegistry creates a new indicator registry
func NewIndicatorRegistry() *IndicatorRegistry {
	return &IndicatorRegistry{
		factories: indicatorpkg.NewRegistry(),
		metadata:  make(map[string]IndicatorMetadata),
	}
}

// Register registers an indicator factory
func (r *IndicatorRegistry) Register(
	name string,
	factory indicatorpkg.Factory,
	metadata IndicatorMetadata,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.factories.Register(name, factory); err != nil {
		return err
	}
	r.metadata[name] = metadata
	return nil
}

// RegisterSpec builds the factory for spec and registers it under the
// calculator's own name.
func (r *IndicatorRegistry) RegisterSpec(spec Spec) (string, error) {
	factory, err := BuildFactory(spec)
	if err != nil {
		return "", err
	}
	calc, err := factory()
	if err != nil {
		return "", err
	}

	meta := IndicatorMetadata{
		Name:     calc.Name(),
		Type:     spec.Type,
		Category: spec.Category(),
		Warmup:   calc.Warmup(),
		Spec:     spec,
	}
	if m, ok := calc.(indicatorpkg.MultiOutput); ok {
		meta.Outputs = m.Outputs()
	}
	if err := r.Register(meta.Name, factory, meta); err != nil {
		return "", err
	}
	return meta.Name, nil
}

// GetFactory returns a factory for an indicator
func (r *IndicatorRegistry) GetFactory(name string) (indicatorpkg.Factory, bool) {
	return r.factories.Factory(name)
}

// Create builds a fresh calculator for name.
func (r *IndicatorRegistry) Create(name string) (indicatorpkg.Calculator, error) {
	return r.factories.Create(name)
}

// ListAvailable returns all available indicator names, sorted
func (r *IndicatorRegistry) ListAvailable() []string {
	return r.factories.List()
}

// Len returns the number of registered indicators.
func (r *IndicatorRegistry) Len() int {
	return r.factories.Len()
}

// GetMetadata returns metadata for an indicator
func (r *IndicatorRegistry) GetMetadata(name string) (IndicatorMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	metadata, exists := r.metadata[name]
	return metadata, exists
}

// GetAllMetadata returns all indicator metadata
func (r *IndicatorRegistry) GetAllMetadata() map[string]IndicatorMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]IndicatorMetadata, len(r.metadata))
	for name, metadata := range r.metadata {
		result[name] = metadata
	}
	return result
}

// RegisterSpecs registers every spec. Two specs that resolve to the same
// calculator name are a configuration error.
func RegisterSpecs(registry *IndicatorRegistry, specs []Spec) error {
	for i, spec := range specs {
		if _, err := registry.RegisterSpec(spec); err != nil {
			return fmt.Errorf("indicator set entry %d (%s): %w", i, spec.Type, err)
		}
	}
	return nil
}
