package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the unit service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	conversions      *prometheus.CounterVec
	cacheHits        prometheus.Counter
	rateLimited      prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		requestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),
		conversions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conversions_total",
				Help: "Total number of temperature conversions performed",
			},
			[]string{"from", "to"},
		),
		cacheHits: f.NewCounter(
			prometheus.CounterOpts{
				Name: "conversion_cache_hits_total",
				Help: "Number of single conversions answered from the cache",
			},
		),
		rateLimited: f.NewCounter(
			prometheus.CounterOpts{
				Name: "http_requests_rate_limited_total",
				Help: "Number of requests rejected by the rate limiter",
			},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RequestStarted increments the in-flight gauge; the returned func records completion.
func (m *Metrics) RequestStarted() func(method, route string, status int, seconds float64) {
	if m == nil {
		return func(string, string, int, float64) {}
	}
	m.requestsInFlight.Inc()
	return func(method, route string, status int, seconds float64) {
		m.requestsInFlight.Dec()
		m.requestDuration.WithLabelValues(method, route).Observe(seconds)
		m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	}
}

// Conversion counts one conversion between two units.
func (m *Metrics) Conversion(from, to string) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(from, to).Inc()
}

// CacheHit counts one cache hit.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// RateLimited counts one rejected request.
func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
