package indicator

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a fresh, independent calculator.
type Factory func() (Calculator, error)

// Registry maps indicator names to factories. It is safe for concurrent
// use; the calculators it builds are not.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new indicator registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under name
func (r *Registry) Register(name string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}
	if name == "" {
		return fmt.Errorf("calculator name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("calculator with name %q already registered", name)
	}

	r.factories[name] = factory
	return nil
}

// Create builds a new calculator from the named factory
func (r *Registry) Create(name string) (Calculator, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("calculator %q not found", name)
	}
	calc, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create calculator %q: %w", name, err)
	}
	return calc, nil
}

// Factory returns the named factory
func (r *Registry) Factory(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// List returns the registered names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len is the number of registered factories
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

// Unregister removes a factory from the registry
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return fmt.Errorf("calculator %q not found", name)
	}

	delete(r.factories, name)
	return nil
}

// Clear removes all factories from the registry
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[string]Factory)
}
