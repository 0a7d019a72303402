package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordCheck(t *testing.T) {
	m := NewMetrics()

	m.RecordCheck("sma_20", "parity", true, 1e-12)
	m.RecordCheck("sma_20", "parity", true, 0)
	m.RecordCheck("sma_20", "cross", false, 0.25)
	m.RecordCheck("sma_20", "reset", true, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ParityChecks.WithLabelValues("sma_20", "parity", "pass")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ParityChecks.WithLabelValues("sma_20", "cross", "fail")))
	assert.Equal(t, 0.25, testutil.ToFloat64(m.ParityDivergence.WithLabelValues("sma_20")))
}

func TestMetrics_Engine(t *testing.T) {
	m := NewMetrics()

	m.ObserveBar()
	m.ObserveBar()
	m.SetContexts(3)
	m.ObserveReset()
	m.ObserveBatch(20 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BarsProcessed))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ContextsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ContextResets))
	assert.Equal(t, 1, testutil.CollectAndCount(m.BatchDuration))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.ObserveBar()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.BarsProcessed))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.BarsProcessed))
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestMetrics_WriteToTextfile(t *testing.T) {
	m := NewMetrics()
	m.RecordCheck("rsi_14", "warmup", true, 0)

	path := filepath.Join(t.TempDir(), "parity.prom")
	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `parity_checks_total{check="warmup",indicator="rsi_14",result="pass"} 1`), text)
	assert.Contains(t, text, "engine_bars_processed_total 0")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordCheck("x", "parity", false, 1)
		m.ObserveBar()
		m.SetContexts(1)
		m.ObserveReset()
		m.ObserveBatch(time.Second)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteToTextfile(filepath.Join(t.TempDir(), "unused.prom")))
}
