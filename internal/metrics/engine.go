package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Engine Prometheus metrics.
var (
	FilterDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "discovery",
			Name:      "filter_apply_duration_seconds",
			Help:      "Filter pipeline execution duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	FilterResultSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "discovery",
			Name:      "filter_result_size",
			Help:      "Number of listings surviving the filter pipeline",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	FilterRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "discovery",
			Name:      "filter_runs_total",
			Help:      "Total filter pipeline executions",
		},
	)

	MarkerOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "discovery",
			Name:      "marker_ops_total",
			Help:      "Marker store operations by kind",
		},
		[]string{"op"}, // "created" / "removed" / "skipped_invalid"
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(FilterDuration)
	prometheus.MustRegister(FilterResultSize)
	prometheus.MustRegister(FilterRunsTotal)
	prometheus.MustRegister(MarkerOpsTotal)
	engineMetricsRegistered = true
}

// ObserveFilter records one filter pipeline execution.
func ObserveFilter(d time.Duration, resultSize int) {
	FilterRunsTotal.Inc()
	FilterDuration.Observe(d.Seconds())
	FilterResultSize.Observe(float64(resultSize))
}
