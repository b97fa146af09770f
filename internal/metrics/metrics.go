// Package metrics exposes Prometheus counters for calculations, catalog
// loading and the HTTP API.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Calculation outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeIncomplete = "incomplete"
	OutcomeInvalid    = "invalid"
)

// Registry holds all metrics for the application
type Registry struct {
	// Calculation Metrics
	CalculationsTotal   *prometheus.CounterVec
	CalculationDuration *prometheus.HistogramVec
	MaterialLines       *prometheus.HistogramVec

	// Catalog Metrics
	CatalogFallbacksTotal *prometheus.CounterVec

	// Project Metrics
	ProjectOperationsTotal *prometheus.CounterVec

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initCalculationMetrics()
	r.initHTTPMetrics()
	return r
}

func (r *Registry) initCalculationMetrics() {
	f := promauto.With(r.registry)

	r.CalculationsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instalaciones_calculations_total",
			Help: "Total number of engine runs",
		},
		[]string{"kind", "outcome"},
	)
	r.CalculationDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "instalaciones_calculation_duration_seconds",
			Help:    "Engine run latency in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"kind"},
	)
	r.MaterialLines = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "instalaciones_material_lines",
			Help:    "Number of bill-of-materials lines per calculation",
			Buckets: []float64{1, 5, 10, 20, 50, 100},
		},
		[]string{"kind"},
	)
	r.CatalogFallbacksTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instalaciones_catalog_fallbacks_total",
			Help: "Catalog files that could not be read and fell back to built-in defaults",
		},
		[]string{"file"},
	)
	r.ProjectOperationsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instalaciones_project_operations_total",
			Help: "Project store operations",
		},
		[]string{"operation", "status"},
	)
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)

	r.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instalaciones_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	r.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "instalaciones_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	r.HTTPRequestsInFlight = f.NewGauge(
		prometheus.GaugeOpts{
			Name: "instalaciones_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

// RecordCalculation records one engine run.
func (r *Registry) RecordCalculation(kind, outcome string, duration time.Duration, lines int) {
	r.CalculationsTotal.WithLabelValues(kind, outcome).Inc()
	r.CalculationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	r.MaterialLines.WithLabelValues(kind).Observe(float64(lines))
}

// RecordCatalogFallback counts a catalog file replaced by defaults. Its
// signature matches catalog.Loader's fallback hook.
func (r *Registry) RecordCatalogFallback(file string) {
	r.CatalogFallbacksTotal.WithLabelValues(file).Inc()
}

// RecordProjectOperation records a project store call.
func (r *Registry) RecordProjectOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.ProjectOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
