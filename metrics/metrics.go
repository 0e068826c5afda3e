// Package metrics exposes Prometheus instrumentation for the Dispatch API.
// Every dispatch operation records a count and a latency observation keyed
// by its own name; retries are tracked separately since they're the one
// operation with an internal retry loop.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the counters/histograms dispatch operations record
// against. A zero Metrics is not usable; build one with New.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InsertRetries   prometheus.Counter
	FetchBatches    prometheus.Counter
}

// New registers the collectors against reg and returns the grouped handles.
// Pass prometheus.NewRegistry() in tests to avoid colliding with the global
// default registry across packages.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "searchkit",
			Name:      "dispatch_requests_total",
			Help:      "Count of Dispatch API operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "searchkit",
			Name:      "dispatch_request_duration_seconds",
			Help:      "Latency of Dispatch API operations by name.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		InsertRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "searchkit",
			Name:      "insert_retries_total",
			Help:      "Count of insert retry attempts due to throttling.",
		}),
		FetchBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "searchkit",
			Name:      "fetch_all_batches_total",
			Help:      "Count of batched queries issued by FetchAllByName.",
		}),
	}
	reg.MustRegister(m.Requests, m.RequestDuration, m.InsertRetries, m.FetchBatches)
	return m
}

// Observe records one completed dispatch operation: a requests-total
// increment tagged with outcome, and a duration observation in seconds.
func (m *Metrics) Observe(operation string, seconds float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Requests.WithLabelValues(operation, outcome).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(seconds)
}
