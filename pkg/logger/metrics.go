package logger

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine and parity-harness collectors. They live on a
// private registry so several instances (tests, harness runs) never clash,
// and are exported by writing the Prometheus text format to a file.
//
// All methods are no-ops on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	mu     sync.Mutex
	maxDiv map[string]float64

	ParityChecks     *prometheus.CounterVec
	ParityDivergence *prometheus.GaugeVec
	BarsProcessed    prometheus.Counter
	ContextsActive   prometheus.Gauge
	ContextResets    prometheus.Counter
	BatchDuration    prometheus.Histogram
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		maxDiv:   make(map[string]float64),
		ParityChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parity_checks_total",
				Help: "Total number of conformance checks run",
			},
			[]string{"indicator", "check", "result"},
		),
		ParityDivergence: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "parity_max_divergence",
				Help: "Largest scaled divergence seen per indicator",
			},
			[]string{"indicator"},
		),
		BarsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "engine_bars_processed_total",
			Help: "Total number of bars fed to stream contexts",
		}),
		ContextsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "engine_contexts_active",
			Help: "Number of live stream contexts",
		}),
		ContextResets: factory.NewCounter(prometheus.CounterOpts{
			Name: "engine_context_resets_total",
			Help: "Total number of context resets and rehydrations",
		}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "engine_batch_duration_seconds",
			Help:    "Duration of batch computations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordCheck counts one check result and tracks the worst divergence.
func (m *Metrics) RecordCheck(indicator, check string, passed bool, divergence float64) {
	if m == nil {
		return
	}
	result := "pass"
	if !passed {
		result = "fail"
	}
	m.ParityChecks.WithLabelValues(indicator, check, result).Inc()

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.maxDiv[indicator]; !ok || divergence > prev {
		m.maxDiv[indicator] = divergence
		m.ParityDivergence.WithLabelValues(indicator).Set(divergence)
	}
}

// ObserveBar counts a processed bar.
func (m *Metrics) ObserveBar() {
	if m == nil {
		return
	}
	m.BarsProcessed.Inc()
}

// SetContexts records the number of live contexts.
func (m *Metrics) SetContexts(n int) {
	if m == nil {
		return
	}
	m.ContextsActive.Set(float64(n))
}

// ObserveReset counts a context reset.
func (m *Metrics) ObserveReset() {
	if m == nil {
		return
	}
	m.ContextResets.Inc()
}

// ObserveBatch records how long a batch computation took.
func (m *Metrics) ObserveBatch(d time.Duration) {
	if m == nil {
		return
	}
	m.BatchDuration.Observe(d.Seconds())
}

// WriteToTextfile dumps every collector in the Prometheus text format.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
