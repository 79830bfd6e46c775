// Package metrics holds the Prometheus collectors shared by the retry
// executor and the resolver. All collectors are safe for concurrent use.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "linbridge"

// Cache lookup results.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Metrics groups the collectors.
type Metrics struct {
	// OperationDuration observes wall-clock latency of successful operations, retries included.
	OperationDuration *prometheus.HistogramVec
	// AttemptFailures counts every failed attempt, including ones that were retried.
	AttemptFailures *prometheus.CounterVec
	// OperationFailures counts operations that exhausted their retry budget.
	// Permanent failures are returned before it is touched.
	OperationFailures *prometheus.CounterVec
	// RateLimited counts attempts rejected with a rate-limit signal.
	RateLimited *prometheus.CounterVec
	// CacheLookups counts resolver cache hits and misses by kind.
	CacheLookups *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is what most tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OperationDuration: newHistogramVec("operation", "duration_seconds",
			"Wall-clock latency of successful remote operations, including retries.",
			[]float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			"operation"),
		AttemptFailures: newCounterVec("operation", "attempt_failures_total",
			"Number of failed attempts of remote operations.",
			"operation"),
		OperationFailures: newCounterVec("operation", "failures_total",
			"Number of remote operations that exhausted their retry budget.",
			"operation"),
		RateLimited: newCounterVec("operation", "rate_limited_total",
			"Number of attempts rejected by the remote side with a rate-limit signal.",
			"operation"),
		CacheLookups: newCounterVec("resolver", "cache_lookups_total",
			"Number of resolver cache lookups by kind and result.",
			"kind", "result"),
	}

	if reg != nil {
		reg.MustRegister(
			m.OperationDuration,
			m.AttemptFailures,
			m.OperationFailures,
			m.RateLimited,
			m.CacheLookups,
		)
	}
	return m
}

// Handler exposes the collectors registered on gatherer over HTTP.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func newCounterVec(subsystem, name, help string, labelNames ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labelNames)
}

func newHistogramVec(subsystem, name, help string, buckets []float64, labelNames ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labelNames)
}
