package models

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestBar_Validate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		bar     *Bar
		wantErr error
	}{
		{
			name: "valid bar",
			bar: &Bar{
				Symbol:    "AAPL",
				Timeframe: "1m",
				Timestamp: now,
				Open:      150.0,
				High:      151.0,
				Low:       149.5,
				Close:     150.5,
				Volume:    1200,
			},
		},
		{
			name:    "missing bar is accepted",
			bar:     Missing("AAPL", "1m", now),
			wantErr: nil,
		},
		{
			name:    "missing symbol",
			bar:     &Bar{Timeframe: "1m", Timestamp: now},
			wantErr: ErrInvalidSymbol,
		},
		{
			name:    "missing timeframe",
			bar:     &Bar{Symbol: "AAPL", Timestamp: now},
			wantErr: ErrInvalidTimeframe,
		},
		{
			name:    "zero timestamp",
			bar:     &Bar{Symbol: "AAPL", Timeframe: "1m"},
			wantErr: ErrInvalidTimestamp,
		},
		{
			name:    "high below low",
			bar:     &Bar{Symbol: "AAPL", Timeframe: "1m", Timestamp: now, High: 149, Low: 150},
			wantErr: ErrInvalidBar,
		},
		{
			name:    "negative volume",
			bar:     &Bar{Symbol: "AAPL", Timeframe: "1m", Timestamp: now, High: 1, Low: 1, Volume: -5},
			wantErr: ErrInvalidVolume,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bar.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Bar.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMissing(t *testing.T) {
	b := Missing("MSFT", "5m", time.Unix(0, 0))
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if !math.IsNaN(v) {
			t.Fatalf("expected NaN field, got %v", v)
		}
	}
	if got := b.Key().String(); got != "MSFT@5m" {
		t.Errorf("Key() = %q, want %q", got, "MSFT@5m")
	}
}

func TestFormatTimeframe(t *testing.T) {
	tests := map[time.Duration]string{
		time.Minute:      "1m",
		15 * time.Minute: "15m",
		4 * time.Hour:    "4h",
		24 * time.Hour:   "1d",
	}
	for d, want := range tests {
		if got := FormatTimeframe(d); got != want {
			t.Errorf("FormatTimeframe(%v) = %q, want %q", d, got, want)
		}
	}
}
