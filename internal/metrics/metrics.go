package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store operation outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	StoreOperations   *prometheus.CounterVec
	StreamSubscribers prometheus.Gauge
}

// New registers the lecturer collectors on a private registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lecturer_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lecturer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		StoreOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lecturer_store_operations_total",
			Help: "Lecturer repository calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		StreamSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lecturer_stream_subscribers",
			Help: "Number of connected SSE subscribers",
		}),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.StoreOperations,
		m.StreamSubscribers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler exposes the private registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordStoreOperation counts one repository call
func (m *Metrics) RecordStoreOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.StoreOperations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) IncrementSubscribers() {
	if m == nil {
		return
	}
	m.StreamSubscribers.Inc()
}

func (m *Metrics) DecrementSubscribers() {
	if m == nil {
		return
	}
	m.StreamSubscribers.Dec()
}
