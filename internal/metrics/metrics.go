package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	runsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arbitrage_runs_total",
		Help: "Planner runs by outcome (scheduled, no_arbitrage, error)",
	}, []string{"outcome"})

	prunedPairs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "arbitrage_pruned_pairs",
		Help:    "Pruning steps per run, including a charging hour dropped without a partner",
		Buckets: []float64{0, 1, 2, 3, 4, 5},
	})

	netRevenue = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "arbitrage_net_revenue_dollars",
		Help:    "Net revenue of simulated schedules",
		Buckets: []float64{-100, 0, 50, 100, 200, 400, 800},
	})

	runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "arbitrage_run_duration_seconds",
		Help:    "Wall time of select+simulate",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	})

	registerOnce sync.Once
)

const (
	OutcomeScheduled   = "scheduled"
	OutcomeNoArbitrage = "no_arbitrage"
	OutcomeError       = "error"
)

// MustRegister registers the collectors on reg (default registerer if nil).
// Safe to call more than once.
func MustRegister(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(runsTotal, prunedPairs, netRevenue, runDuration)
	})
}

// ResetRuns clears the per-outcome run counters. Histograms have no reset in
// client_golang and keep accumulating; tests assert on counters only.
func ResetRuns() {
	runsTotal.Reset()
}

// Handler serves the default gatherer in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRun records a successful run.
func ObserveRun(scheduled bool, pruned int, revenue float64, seconds float64) {
	outcome := OutcomeScheduled
	if !scheduled {
		outcome = OutcomeNoArbitrage
	}
	runsTotal.WithLabelValues(outcome).Inc()
	prunedPairs.Observe(float64(pruned))
	netRevenue.Observe(revenue)
	runDuration.Observe(seconds)
}

// ObserveError records a run that failed validation.
func ObserveError() {
	runsTotal.WithLabelValues(OutcomeError).Inc()
}

// Runs returns the counter for an outcome, for tests and diagnostics.
func Runs(outcome string) prometheus.Counter {
	return runsTotal.WithLabelValues(outcome)
}
