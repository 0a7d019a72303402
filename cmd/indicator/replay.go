package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mohamedkhairy/ta-engine/internal/indicator"
	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/logger"
)

// recorder forwards bars to the engine and keeps the ones it accepted, per
// context, so each context can be recomputed in batch afterwards.
type recorder struct {
	engine *indicator.Engine
	bars   map[models.ContextKey][]*models.Bar
}

func (r *recorder) ProcessBar(bar *models.Bar) error {
	if err := r.engine.ProcessBar(bar); err != nil {
		return err
	}
	r.bars[bar.Key()] = append(r.bars[bar.Key()], bar)
	return nil
}

// replayBars streams a JSON-lines bar file through the engine, then checks
// every context's streamed values against a batch recomputation.
func replayBars(ctx context.Context, path string, engine *indicator.Engine, tol float64) error {
	ctx, end := logger.StartSpan(ctx, "replay")
	defer end()
	log := logger.WithContext(ctx)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open bars file: %w", err)
	}
	defer f.Close()

	rec := &recorder{engine: engine, bars: make(map[models.ContextKey][]*models.Bar)}
	stats, err := indicator.NewBarReader(rec).Replay(ctx, f)
	if err != nil {
		return err
	}
	log.Info("Bars replayed",
		logger.Int64("processed", stats.BarsProcessed),
		logger.Int64("failed", stats.BarsFailed),
		logger.Int("contexts", engine.ContextCount()),
	)

	var failures int
	for _, key := range engine.Contexts() {
		divergence, err := engine.VerifyContext(ctx, key, rec.bars[key])
		if err != nil {
			return err
		}
		for name, d := range divergence {
			if !(d <= tol) {
				failures++
				log.Error("Streamed value diverges from batch",
					logger.StreamContext(key),
					logger.String("series", name),
					logger.Divergence(d),
				)
			}
		}
		readiness, _ := engine.Readiness(key)
		pending := 0
		for _, n := range readiness {
			if n > 0 {
				pending++
			}
		}
		log.Info("Context verified",
			logger.StreamContext(key),
			logger.Int("series", len(divergence)),
			logger.Int("warming_up", pending),
		)
	}
	if failures > 0 {
		return fmt.Errorf("%d streamed series diverge from batch", failures)
	}
	return nil
}
