package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mohamedkhairy/ta-engine/internal/models"
)

func TestInit(t *testing.T) {
	tests := []struct {
		level string
		env   string
		want  zapcore.Level
	}{
		{"debug", "production", zapcore.DebugLevel},
		{"warn", "production", zapcore.WarnLevel},
		{"error", "development", zapcore.ErrorLevel},
		{"verbose", "development", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.env, func(t *testing.T) {
			require.NoError(t, Init(tt.level, tt.env))
			assert.True(t, Get().Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, Get().Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestFields(t *testing.T) {
	assert.Equal(t, "indicator", String("indicator", "sma_20").Key)
	assert.Equal(t, zapcore.Int64Type, Int("bars", 3).Type)
	assert.Equal(t, zapcore.Float64Type, Float64("divergence", 1e-12).Type)
	assert.Equal(t, "error", ErrorField(errors.New("boom")).Key)
}

func TestWithContext_TagsRunAndSpan(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := ReplaceGlobal(zap.New(core))
	defer restore()

	ctx := WithRunID(context.Background(), "run-1")
	ctx, end := StartSpan(ctx, "replay")
	WithContext(ctx).Warn("Streamed value diverges from batch",
		StreamContext(models.ContextKey{Symbol: "AAPL", Timeframe: "1m"}),
		Indicator("sma_20"),
		Divergence(0.5),
	)
	end()

	entries := logs.FilterMessage("Streamed value diverges from batch").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "run-1", fields["run_id"])
	assert.Equal(t, "AAPL@1m", fields["context"])
	assert.Equal(t, "sma_20", fields["indicator"])
	assert.Equal(t, 0.5, fields["divergence"])
	assert.Contains(t, fields, "span")
}

func TestReplaceGlobal_Restores(t *testing.T) {
	first := zap.NewNop()
	restore := ReplaceGlobal(first)
	second := zap.NewNop()
	inner := ReplaceGlobal(second)
	assert.Same(t, second, Get())
	inner()
	assert.Same(t, first, Get())
	restore()
}
