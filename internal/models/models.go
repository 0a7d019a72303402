package models

import (
	"fmt"
	"math"
	"time"
)

// Bar is one finalized OHLCV bar of an instrument on a timeframe. Any
// price or volume may be NaN to mark a missing sample; indicators treat it
// as the invalid-sample sentinel.
type Bar struct {
	Symbol    string    `json:"symbol" yaml:"symbol"`
	Timeframe string    `json:"timeframe" yaml:"timeframe"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Open      float64   `json:"open" yaml:"open"`
	High      float64   `json:"high" yaml:"high"`
	Low       float64   `json:"low" yaml:"low"`
	Close     float64   `json:"close" yaml:"close"`
	Volume    float64   `json:"volume" yaml:"volume"`
}

// Validate checks the identity fields and, for prices that are present,
// the bar's internal consistency. Missing (NaN) prices are accepted.
func (b *Bar) Validate() error {
	if b.Symbol == "" {
		return ErrInvalidSymbol
	}
	if b.Timeframe == "" {
		return ErrInvalidTimeframe
	}
	if b.Timestamp.IsZero() {
		return ErrInvalidTimestamp
	}
	if b.High < b.Low {
		return ErrInvalidBar
	}
	if b.Volume < 0 {
		return ErrInvalidVolume
	}
	return nil
}

// Key returns the context key the bar belongs to.
func (b *Bar) Key() ContextKey {
	return ContextKey{Symbol: b.Symbol, Timeframe: b.Timeframe}
}

// Missing returns a bar whose every price and volume is the sentinel.
func Missing(symbol, timeframe string, ts time.Time) *Bar {
	nan := math.NaN()
	return &Bar{
		Symbol:    symbol,
		Timeframe: timeframe,
		Timestamp: ts,
		Open:      nan,
		High:      nan,
		Low:       nan,
		Close:     nan,
		Volume:    nan,
	}
}

// ContextKey identifies one independent indicator context: an instrument
// on a timeframe.
type ContextKey struct {
	Symbol    string
	Timeframe string
}

func (k ContextKey) String() string {
	return fmt.Sprintf("%s@%s", k.Symbol, k.Timeframe)
}

// FormatTimeframe renders a bar duration the way timeframes are named
// ("1m", "4h", "1d").
func FormatTimeframe(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}
	days := hours / 24
	return fmt.Sprintf("%dd", days)
}
