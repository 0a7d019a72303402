package indicator

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/logger"
)

// BarProcessorInterface defines the interface for processing bars
type BarProcessorInterface interface {
	ProcessBar(bar *models.Bar) error
}

// wireBar is the JSON form of a bar. A null or absent price or volume
// decodes to the missing-sample sentinel.
type wireBar struct {
	Symbol    string    `json:"symbol"`
	Timeframe string    `json:"timeframe"`
	Timestamp time.Time `json:"timestamp"`
	Open      *float64  `json:"open"`
	High      *float64  `json:"high"`
	Low       *float64  `json:"low"`
	Close     *float64  `json:"close"`
	Volume    *float64  `json:"volume"`
}

func orMissing(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// DecodeBar decodes one JSON bar.
func DecodeBar(data []byte) (*models.Bar, error) {
	var w wireBar
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bar: %w", err)
	}
	return &models.Bar{
		Symbol:    w.Symbol,
		Timeframe: w.Timeframe,
		Timestamp: w.Timestamp,
		Open:      orMissing(w.Open),
		High:      orMissing(w.High),
		Low:       orMissing(w.Low),
		Close:     orMissing(w.Close),
		Volume:    orMissing(w.Volume),
	}, nil
}

// ReaderStats holds statistics about a replay
type ReaderStats struct {
	BarsProcessed int64
	BarsFailed    int64
	LastBarTime   time.Time
}

// BarReader replays newline-delimited JSON bars into a processor, one bar
// at a time and in file order.
type BarReader struct {
	processor BarProcessorInterface
	stats     ReaderStats
}

// NewBarReader creates a new bar reader
func NewBarReader(processor BarProcessorInterface) *BarReader {
	return &BarReader{processor: processor}
}

// Stats returns replay statistics so far.
func (r *BarReader) Stats() ReaderStats {
	return r.stats
}

// Replay consumes src until EOF or cancellation. Undecodable or rejected
// bars are logged and counted but do not stop the replay.
func (r *BarReader) Replay(ctx context.Context, src io.Reader) (ReaderStats, error) {
	if r.processor == nil {
		return r.stats, fmt.Errorf("no processor set")
	}

	scanner := bufio.NewScanner(src)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return r.stats, err
		}
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		bar, err := DecodeBar(data)
		if err != nil {
			logger.Error("Failed to deserialize bar",
				logger.ErrorField(err),
				logger.Int("line", line),
			)
			r.stats.BarsFailed++
			continue
		}

		if err := r.processor.ProcessBar(bar); err != nil {
			logger.Error("Failed to process bar",
				logger.ErrorField(err),
				logger.String("symbol", bar.Symbol),
				logger.Int("line", line),
			)
			r.stats.BarsFailed++
			continue
		}

		r.stats.BarsProcessed++
		r.stats.LastBarTime = bar.Timestamp
	}
	if err := scanner.Err(); err != nil {
		return r.stats, fmt.Errorf("failed to read bars: %w", err)
	}
	return r.stats, nil
}
