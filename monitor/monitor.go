// Package monitor collects Prometheus metrics for the REST gateway.
package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Monitor owns a private registry so one-shot tool invocations never clash
// with default-registry collectors.
type Monitor struct {
	registry *prometheus.Registry

	restRequests *prometheus.CounterVec
	restErrors   *prometheus.CounterVec
	restLatency  *prometheus.HistogramVec
}

// Config names the metric namespace.
type Config struct {
	Namespace string
	Subsystem string
}

// DefaultConfig returns the namespace used by the seeder tools.
func DefaultConfig() Config {
	return Config{
		Namespace: "hlseeder",
		Subsystem: "gateway",
	}
}

// New creates a Monitor with its own registry.
func New(cfg Config) *Monitor {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Monitor{
		registry: reg,
		restRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rest_requests_total",
			Help:      "REST requests issued, by endpoint",
		}, []string{"endpoint"}),
		restErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rest_errors_total",
			Help:      "REST requests that failed, by endpoint",
		}, []string{"endpoint"}),
		restLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rest_latency_seconds",
			Help:      "REST round-trip latency, by endpoint",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// RecordRequest counts one issued request.
func (m *Monitor) RecordRequest(endpoint string) {
	if m == nil {
		return
	}
	m.restRequests.WithLabelValues(endpoint).Inc()
}

// RecordError counts one failed request.
func (m *Monitor) RecordError(endpoint string) {
	if m == nil {
		return
	}
	m.restErrors.WithLabelValues(endpoint).Inc()
}

// ObserveLatency records one round-trip duration.
func (m *Monitor) ObserveLatency(endpoint string, d time.Duration) {
	if m == nil {
		return
	}
	m.restLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

// Registry exposes the underlying registry for scraping or test assertions.
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}

// RESTRequests returns the request counter for an endpoint, for tests.
func (m *Monitor) RESTRequests(endpoint string) prometheus.Counter {
	return m.restRequests.WithLabelValues(endpoint)
}

// RESTErrors returns the error counter for an endpoint, for tests.
func (m *Monitor) RESTErrors(endpoint string) prometheus.Counter {
	return m.restErrors.WithLabelValues(endpoint)
}
