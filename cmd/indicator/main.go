package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mohamedkhairy/ta-engine/internal/config"
	"github.com/mohamedkhairy/ta-engine/internal/conformance"
	"github.com/mohamedkhairy/ta-engine/internal/indicator"
	"github.com/mohamedkhairy/ta-engine/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Parity.Timeout)
	defer cancel()
	ctx = logger.WithRunID(ctx, logger.NewRunID())
	log := logger.WithContext(ctx)

	specs, err := cfg.IndicatorSpecs()
	if err != nil {
		log.Error("Failed to load indicator set", logger.ErrorField(err))
		return 1
	}

	// Initialize indicator registry
	registry := indicator.NewIndicatorRegistry()
	if err := indicator.RegisterSpecs(registry, specs); err != nil {
		log.Error("Failed to register indicators", logger.ErrorField(err))
		return 1
	}
	log.Info("Registered indicators",
		logger.Int("count", registry.Len()),
		logger.String("source", indicatorSetSource(cfg)),
	)

	metrics := logger.NewMetrics()
	ok := runHarness(ctx, cfg, specs, metrics)

	if cfg.Engine.BarsFile != "" {
		engine := indicator.NewEngine(indicator.EngineConfig{
			MaxContexts: cfg.Engine.MaxContexts,
			Metrics:     metrics,
		}, registry)
		if err := replayBars(ctx, cfg.Engine.BarsFile, engine, cfg.Parity.Tolerance); err != nil {
			log.Error("Bar replay failed", logger.ErrorField(err))
			ok = false
		}
	}

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteToTextfile(cfg.MetricsTextfile); err != nil {
			log.Error("Failed to write metrics", logger.ErrorField(err))
			ok = false
		} else {
			log.Info("Metrics written", logger.String("path", cfg.MetricsTextfile))
		}
	}

	if !ok {
		return 1
	}
	return 0
}

// runHarness checks every configured indicator over the synthetic series
// and reports whether all checks passed.
func runHarness(ctx context.Context, cfg *config.Config, specs []indicator.Spec, metrics *logger.Metrics) bool {
	ctx, end := logger.StartSpan(ctx, "conformance")
	defer end()
	log := logger.WithContext(ctx)

	cases, err := conformance.CasesFromSpecs(specs)
	if err != nil {
		log.Error("Failed to build conformance cases", logger.ErrorField(err))
		return false
	}
	suite := &conformance.Suite{
		Tolerance:      cfg.Parity.Tolerance,
		CrossTolerance: cfg.Parity.CrossCheckTolerance,
		CrossCheck:     cfg.Parity.CrossCheck,
		Cases:          cases,
	}

	bars := conformance.Synthetic(cfg.Parity.SeriesLength, cfg.Parity.Seed)
	log.Info("Running conformance suite",
		logger.Int("indicators", len(cases)),
		logger.Int("bars", len(bars)),
		logger.Int64("seed", cfg.Parity.Seed),
		logger.Bool("cross_check", cfg.Parity.CrossCheck),
	)

	start := time.Now()
	report, err := suite.Run(ctx, bars)
	if err != nil {
		log.Error("Conformance suite interrupted", logger.ErrorField(err))
		return false
	}

	for _, res := range report.Results {
		metrics.RecordCheck(res.Indicator, res.Check, res.Passed, res.MaxDivergence)
		if !res.Passed {
			log.Error("Check failed",
				logger.Indicator(res.Indicator),
				logger.String("check", res.Check),
				logger.String("reference", res.Reference),
				logger.String("detail", res.Detail),
			)
		}
	}
	for _, name := range report.Indicators() {
		results := report.ForIndicator(name)
		passed := 0
		for _, res := range results {
			if res.Passed {
				passed++
			}
		}
		log.Info("Indicator checked",
			logger.Indicator(name),
			logger.Int("passed", passed),
			logger.Int("checks", len(results)),
			logger.Float64("max_divergence", report.MaxDivergence(name)),
		)
	}

	log.Info("Conformance suite finished",
		logger.Bool("passed", report.Passed()),
		logger.Int("failures", len(report.Failures())),
		logger.Duration("elapsed", time.Since(start)),
	)
	return report.Passed()
}

func indicatorSetSource(cfg *config.Config) string {
	if cfg.IndicatorSetFile == "" {
		return "default"
	}
	return cfg.IndicatorSetFile
}
