package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	releaseRequestsTotal  *prometheus.CounterVec
	releaseLatencySeconds *prometheus.HistogramVec
	releaseErrorsTotal    *prometheus.CounterVec
	releasesCreatedTotal  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the release API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		releaseRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "release_requests_total",
			Help: "Total number of release API requests served.",
		}, []string{"method", "route", "status"})

		releaseLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "release_latency_seconds",
			Help:    "Latency distribution for release API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		releaseErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "release_errors_total",
			Help: "Total number of error responses returned by release endpoints.",
		}, []string{"method", "route", "status"})

		releasesCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "releases_created_total",
			Help: "Total number of test releases created, by creation mode.",
		}, []string{"mode"})

		prometheus.MustRegister(releaseRequestsTotal, releaseLatencySeconds, releaseErrorsTotal, releasesCreatedTotal)
	})
}

// ReleaseRequests exposes the counter for release API requests.
func ReleaseRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return releaseRequestsTotal
}

// ReleaseLatency exposes the latency histogram for release API requests.
func ReleaseLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return releaseLatencySeconds
}

// ReleaseErrors exposes the counter for release API error responses.
func ReleaseErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return releaseErrorsTotal
}

// ReleasesCreated exposes the counter for created releases. Mode is "single"
// or "bulk".
func ReleasesCreated() *prometheus.CounterVec {
	RegisterMetrics()
	return releasesCreatedTotal
}
