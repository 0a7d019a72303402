package logger

import (
	"context"
	"fmt"
	"os"
	"time"
)

type contextKey string

const (
	runIDKey contextKey = "run_id"
	spanKey  contextKey = "span"
)

// NewRunID generates an identifier for one harness or engine run.
func NewRunID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), os.Getpid())
}

// WithRunID tags ctx with a run identifier picked up by WithContext.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID retrieves the run identifier from ctx.
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// GetSpan returns the name of the innermost span in ctx.
func GetSpan(ctx context.Context) string {
	if name, ok := ctx.Value(spanKey).(string); ok {
		return name
	}
	return ""
}

// StartSpan names a unit of work. The returned function logs its duration
// at debug level.
func StartSpan(ctx context.Context, name string) (context.Context, func()) {
	if parent := GetSpan(ctx); parent != "" {
		name = parent + "/" + name
	}
	ctx = context.WithValue(ctx, spanKey, name)
	start := time.Now()
	return ctx, func() {
		WithContext(ctx).Debug("span finished", Duration("elapsed", time.Since(start)))
	}
}
