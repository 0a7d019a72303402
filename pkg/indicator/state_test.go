package indicator

import (
	"testing"

	"github.com/mohamedkhairy/ta-engine/pkg/filter"
)

func TestSet_Add(t *testing.T) {
	set := NewSet()

	if err := set.Add(newMock("test")); err != nil {
		t.Fatalf("Failed to add calculator: %v", err)
	}
	if err := set.Add(newMock("test")); err == nil {
		t.Error("Expected error when adding a duplicate name")
	}
	if err := set.Add(nil); err == nil {
		t.Error("Expected error when adding nil")
	}
	if set.Len() != 1 {
		t.Errorf("Expected 1 calculator, got %d", set.Len())
	}
}

func TestSet_UpdateAndValues(t *testing.T) {
	set := NewSet()
	sma, _ := NewSMA(2, Close)
	bb, _ := NewBollinger(2, 2, SMA, Close, filter.SeedRollingMean)
	_ = set.Add(sma)
	_ = set.Add(bb)

	set.Update(closeBar(0, 10))
	if len(set.Values()) != 0 {
		t.Errorf("Expected no values during warm-up, got %v", set.Values())
	}
	if got := set.Readiness()["sma_2"]; got != 1 {
		t.Errorf("Expected 1 bar remaining for sma_2, got %d", got)
	}

	set.Update(closeBar(1, 12))
	values := set.Values()
	if values["sma_2"] != 11 {
		t.Errorf("Expected sma_2 = 11, got %v", values["sma_2"])
	}
	if values["bollinger_2_2.basis"] != 11 {
		t.Errorf("Expected bollinger basis 11, got %v", values["bollinger_2_2.basis"])
	}
	if values["bollinger_2_2.upper"] != 13 {
		t.Errorf("Expected bollinger upper 13, got %v", values["bollinger_2_2.upper"])
	}
	if set.Bars() != 2 {
		t.Errorf("Expected 2 bars, got %d", set.Bars())
	}
	if len(set.Pending()) != 0 {
		t.Errorf("Expected nothing pending, got %v", set.Pending())
	}
}

func TestSet_ValuesSkipsSentinelOutputs(t *testing.T) {
	set := NewSet()
	sma, _ := NewSMA(2, Close)
	bb, _ := NewBollinger(2, 2, SMA, Close, filter.SeedRollingMean)
	_ = set.Add(sma)
	_ = set.Add(bb)

	set.Update(closeBar(0, 10))
	set.Update(closeBar(1, 12))
	set.Update(nil)

	if !sma.IsReady() {
		t.Fatal("Expected sma_2 to stay ready across a missing bar")
	}
	if values := set.Values(); len(values) != 0 {
		t.Errorf("Expected no values while a missing bar is in the window, got %v", values)
	}

	set.Update(closeBar(3, 14))
	set.Update(closeBar(4, 16))
	if got := set.Values()["sma_2"]; got != 15 {
		t.Errorf("Expected sma_2 = 15 once the missing bar is evicted, got %v", got)
	}
	if _, ok := set.Values()["bollinger_2_2.width"]; !ok {
		t.Error("Expected bollinger outputs once the missing bar is evicted")
	}
}

func TestSet_Remove(t *testing.T) {
	set := NewSet()
	_ = set.Add(newMock("a"))
	_ = set.Add(newMock("b"))
	_ = set.Add(newMock("c"))

	set.Remove("b")
	names := set.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "c" {
		t.Errorf("Expected [a c], got %v", names)
	}
	if _, ok := set.Get("b"); ok {
		t.Error("Removed calculator should be gone")
	}
	set.Remove("missing")
}

func TestSet_Reset(t *testing.T) {
	set := NewSet()
	_ = set.Add(newMock("test"))

	set.Update(closeBar(0, 1))
	set.Update(closeBar(1, 2))
	if len(set.Pending()) != 0 {
		t.Fatal("mock should be ready after two bars")
	}

	set.Reset()
	if set.Bars() != 0 {
		t.Errorf("Expected 0 bars after reset, got %d", set.Bars())
	}
	if pending := set.Pending(); len(pending) != 1 || pending[0] != "test" {
		t.Errorf("Expected [test] pending after reset, got %v", pending)
	}
}

func TestSet_RehydrateMatchesStreaming(t *testing.T) {
	bars := walk(60)

	build := func() *Set {
		s := NewSet()
		rsi, _ := NewRSI(14, Close, filter.SeedRollingMean)
		atr, _ := NewATR(14, filter.SeedRollingMean)
		macd, _ := NewMACD(12, 26, 9, Close, filter.SeedRollingMean)
		_ = s.Add(rsi)
		_ = s.Add(atr)
		_ = s.Add(macd)
		return s
	}

	live := build()
	for _, bar := range bars {
		live.Update(bar)
	}

	restored := build()
	restored.Update(closeBar(0, 999)) // stale state must be discarded
	restored.Rehydrate(bars)

	want, got := live.Values(), restored.Values()
	if len(want) != len(got) {
		t.Fatalf("Expected %d values, got %d", len(want), len(got))
	}
	for name, v := range want {
		if !sameValue(v, got[name]) {
			t.Errorf("%s: streamed %v, rehydrated %v", name, v, got[name])
		}
	}
}
