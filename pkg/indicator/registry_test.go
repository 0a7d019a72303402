package indicator

import (
	"fmt"
	"testing"

	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// mockCalculator is a simple mock calculator for testing
type mockCalculator struct {
	name      string
	value     float64
	processed int
}

func newMock(name string) *mockCalculator {
	return &mockCalculator{name: name, value: numeric.Sentinel()}
}

func (m *mockCalculator) Name() string {
	return m.name
}

func (m *mockCalculator) Update(bar *models.Bar) (float64, bool) {
	m.processed++
	if m.processed < 2 {
		return m.value, false
	}
	m.value = float64(m.processed)
	return m.value, true
}

func (m *mockCalculator) Value() float64 {
	return m.value
}

func (m *mockCalculator) Reset() {
	m.processed = 0
	m.value = numeric.Sentinel()
}

func (m *mockCalculator) IsReady() bool {
	return m.processed >= 2
}

func (m *mockCalculator) Warmup() int { return 2 }

func (m *mockCalculator) BarsRemaining() int {
	if m.processed >= 2 {
		return 0
	}
	return 2 - m.processed
}

func mockFactory(name string) Factory {
	return func() (Calculator, error) { return newMock(name), nil }
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	// Register first factory
	err := registry.Register("test1", mockFactory("test1"))
	if err != nil {
		t.Fatalf("Failed to register factory: %v", err)
	}

	// Register second factory
	err = registry.Register("test2", mockFactory("test2"))
	if err != nil {
		t.Fatalf("Failed to register second factory: %v", err)
	}

	// Try to register duplicate
	err = registry.Register("test1", mockFactory("test1"))
	if err == nil {
		t.Error("Expected error when registering duplicate factory")
	}

	// Try to register nil
	err = registry.Register("test3", nil)
	if err == nil {
		t.Error("Expected error when registering nil factory")
	}

	// Try to register without a name
	err = registry.Register("", mockFactory(""))
	if err == nil {
		t.Error("Expected error when registering without a name")
	}

	if registry.Len() != 2 {
		t.Errorf("Expected 2 factories, got %d", registry.Len())
	}
}

func TestRegistry_Create(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register("test1", mockFactory("test1"))

	a, err := registry.Create("test1")
	if err != nil {
		t.Fatalf("Failed to create calculator: %v", err)
	}
	b, _ := registry.Create("test1")
	if a == b {
		t.Error("Each Create should return an independent calculator")
	}

	a.Update(nil)
	a.Update(nil)
	if !a.IsReady() || b.IsReady() {
		t.Error("Calculators built from one factory must not share state")
	}

	_, err = registry.Create("missing")
	if err == nil {
		t.Error("Expected error for unknown calculator")
	}
}

func TestRegistry_FactoryError(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register("broken", func() (Calculator, error) {
		return nil, fmt.Errorf("boom")
	})

	if _, err := registry.Create("broken"); err == nil {
		t.Error("Expected factory error to be returned")
	}
}

func TestRegistry_List(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register("zeta", mockFactory("zeta"))
	_ = registry.Register("alpha", mockFactory("alpha"))

	names := registry.List()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("Expected sorted [alpha zeta], got %v", names)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register("test1", mockFactory("test1"))

	if err := registry.Unregister("test1"); err != nil {
		t.Fatalf("Failed to unregister: %v", err)
	}
	if _, ok := registry.Factory("test1"); ok {
		t.Error("Factory should be gone after unregister")
	}
	if err := registry.Unregister("test1"); err == nil {
		t.Error("Expected error when unregistering twice")
	}
}

func TestRegistry_Clear(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register("test1", mockFactory("test1"))
	_ = registry.Register("test2", mockFactory("test2"))

	registry.Clear()

	if registry.Len() != 0 {
		t.Errorf("Expected empty registry after clear, got %d", registry.Len())
	}
}
