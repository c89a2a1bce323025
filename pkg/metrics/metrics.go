// Package metrics exposes prometheus collectors for expansion outcomes and an
// optional /metrics listener for long-running batches.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultBuckets provides a common set of histogram buckets in seconds reused
// across latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

//nolint: gochecknoglobals
var (
	outcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "unshorten",
		Name:      "outcomes_total",
		Help:      "Per-URL expansion outcomes by final state.",
	}, []string{"outcome"})

	resolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "unshorten",
		Name:      "resolve_duration_seconds",
		Help:      "Wall-clock duration of full redirect chains.",
		Buckets:   DefaultBuckets,
	})
)

// ObserveOutcome counts one URL reaching the given final state
// (ignored, cache_hit, expanded, unchanged, timeout, error).
func ObserveOutcome(outcome string) {
	outcomesTotal.WithLabelValues(outcome).Inc()
}

// ObserveResolveDuration records the wall-clock time of one redirect chain.
func ObserveResolveDuration(d time.Duration) {
	resolveDuration.Observe(d.Seconds())
}

// Serve blocks serving the prometheus handler on addr. Intended to be run in
// its own goroutine alongside a batch.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return http.ListenAndServe(addr, mux) //nolint: gosec
}
