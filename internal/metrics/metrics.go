// Package metrics provides the centralized Prometheus metrics registry for
// the line finder.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	QuotesProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "line_finder",
		Name:      "quotes_processed_total",
		Help:      "Total number of raw quotes run through the pipeline",
	})
	DevigErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "line_finder",
		Name:      "devig_errors_total",
		Help:      "Total number of quotes dropped during vig removal",
	})
	GroupsMergedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "line_finder",
		Name:      "groups_merged_total",
		Help:      "Total number of market line groups produced by merging",
	})
	CurvesFittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "line_finder",
		Name:      "curves_fitted_total",
		Help:      "Total number of fair value curves fitted",
	})
	FlatFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "line_finder",
		Name:      "flat_fallbacks_total",
		Help:      "Total number of groups fitted with the flat fallback",
	})
	BootstrapRefitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "line_finder",
		Name:      "bootstrap_refits_total",
		Help:      "Total number of bootstrap resample refits",
	})
	ArbitrageFoundTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "line_finder",
		Name:      "arbitrage_found_total",
		Help:      "Total number of arbitrage opportunities found",
	}, []string{"scope"})
	MispricedFlaggedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "line_finder",
		Name:      "mispriced_flagged_total",
		Help:      "Total number of quotes flagged as mispriced",
	}, []string{"scope"})
)

// Gauge metrics
var (
	LastRunGroups = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "line_finder",
		Name:      "last_run_groups",
		Help:      "Number of market line groups in the most recent run",
	})
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "line_finder",
		Name:      "cache_hit_ratio",
		Help:      "Result cache hit ratio",
	})
)

// Histogram metrics
var (
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "line_finder",
		Name:      "run_duration_seconds",
		Help:      "Duration of one full event analysis run in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	GroupFitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "line_finder",
		Name:      "group_fit_duration_seconds",
		Help:      "Duration of curve fitting and detection per group in seconds",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(QuotesProcessedTotal)
		registry.MustRegister(DevigErrorsTotal)
		registry.MustRegister(GroupsMergedTotal)
		registry.MustRegister(CurvesFittedTotal)
		registry.MustRegister(FlatFallbacksTotal)
		registry.MustRegister(BootstrapRefitsTotal)
		registry.MustRegister(ArbitrageFoundTotal)
		registry.MustRegister(MispricedFlaggedTotal)

		registry.MustRegister(LastRunGroups)
		registry.MustRegister(CacheHitRatio)

		registry.MustRegister(RunDuration)
		registry.MustRegister(GroupFitDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordQuotesProcessed records a batch of quotes entering the pipeline.
func RecordQuotesProcessed(n int) {
	QuotesProcessedTotal.Add(float64(n))
}

// RecordDevigError records a quote dropped during vig removal.
func RecordDevigError() {
	DevigErrorsTotal.Inc()
}

// RecordGroupsMerged records the group count of one merge pass.
func RecordGroupsMerged(n int) {
	GroupsMergedTotal.Add(float64(n))
	LastRunGroups.Set(float64(n))
}

// RecordCurveFitted records a curve fit, flat or interpolated.
func RecordCurveFitted(flat bool) {
	CurvesFittedTotal.Inc()
	if flat {
		FlatFallbacksTotal.Inc()
	}
}

// RecordBootstrapRefits records resample refits from one bootstrap pass.
func RecordBootstrapRefits(n int) {
	BootstrapRefitsTotal.Add(float64(n))
}

// RecordArbitrageFound records discovered arbitrage opportunities per scope.
func RecordArbitrageFound(scope string, n int) {
	ArbitrageFoundTotal.WithLabelValues(scope).Add(float64(n))
}

// RecordMispricedFlagged records flagged quotes per scope.
func RecordMispricedFlagged(scope string, n int) {
	MispricedFlaggedTotal.WithLabelValues(scope).Add(float64(n))
}

// RecordRunDuration records the duration of one full analysis run.
func RecordRunDuration(seconds float64) {
	RunDuration.Observe(seconds)
}

// RecordGroupFitDuration records per-group fit and detect time.
func RecordGroupFitDuration(seconds float64) {
	GroupFitDuration.Observe(seconds)
}
