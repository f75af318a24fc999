// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	// AnalysesTotal counts stored analysis reports by content type and scoring source.
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "truthlens",
		Subsystem: "analysis",
		Name:      "reports_total",
		Help:      "Total number of analysis reports produced, labeled by type and api source.",
	}, []string{"type", "source"})

	// RemoteFallbacksTotal counts remote provider failures that fell back to local scoring.
	RemoteFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "truthlens",
		Subsystem: "analysis",
		Name:      "remote_fallbacks_total",
		Help:      "Total number of remote provider failures answered with local scoring.",
	}, []string{"type"})

	// DeepfakeChecksTotal counts deepfake checks by verdict.
	DeepfakeChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "truthlens",
		Subsystem: "analysis",
		Name:      "deepfake_checks_total",
		Help:      "Total number of deepfake checks, labeled by verdict.",
	}, []string{"verdict"})

	// UserReportsTotal counts submitted user reports.
	UserReportsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "truthlens",
		Subsystem: "reports",
		Name:      "submitted_total",
		Help:      "Total number of user reports submitted.",
	})

	// RequestDurationSeconds is the HTTP handling time per route pattern.
	RequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "truthlens",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Time to handle an HTTP request, including the simulated processing delay.",
		Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 2, 3, 5, 10, 30},
	}, []string{"method", "route", "status"})
)

// Register registers the collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AnalysesTotal,
			RemoteFallbacksTotal,
			DeepfakeChecksTotal,
			UserReportsTotal,
			RequestDurationSeconds,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}
