package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
	ideasGenerated  *prometheus.CounterVec
	ideasSubmitted  prometheus.Counter
	ideasReviewed   *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on a dedicated registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idea_portal_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "idea_portal_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idea_portal_http_errors_total",
			Help: "HTTP error responses by error code",
		}, []string{"method", "route", "code"}),
		ideasGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idea_portal_ideas_generated_total",
			Help: "Idea generation attempts by outcome",
		}, []string{"outcome"}),
		ideasSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "idea_portal_ideas_submitted_total",
			Help: "Ideas submitted for review",
		}),
		ideasReviewed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idea_portal_ideas_reviewed_total",
			Help: "Ideas reviewed by resulting status",
		}, []string{"status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.errorsTotal,
		m.ideasGenerated,
		m.ideasSubmitted,
		m.ideasReviewed,
	)
	return m
}

// RecordRequest counts a completed request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordError counts an error response.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(method, route, code).Inc()
}

// RecordGeneration counts a generation attempt; outcome is "ok", "limited" or "failed".
func (m *Metrics) RecordGeneration(outcome string) {
	if m == nil {
		return
	}
	m.ideasGenerated.WithLabelValues(outcome).Inc()
}

// RecordSubmission counts a stored submission.
func (m *Metrics) RecordSubmission() {
	if m == nil {
		return
	}
	m.ideasSubmitted.Inc()
}

// RecordReview counts a review decision.
func (m *Metrics) RecordReview(status string) {
	if m == nil {
		return
	}
	m.ideasReviewed.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
