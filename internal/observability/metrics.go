package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the desk's prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	ticketsCreated  prometheus.Counter
	ticketUpdates   *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	signIns         *prometheus.CounterVec
}

// NewMetrics registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"path", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "helpdesk_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_http_errors_total",
			Help: "HTTP error responses by error code",
		}, []string{"path", "method", "code"}),
		ticketsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "helpdesk_tickets_created_total",
			Help: "Tickets opened",
		}),
		ticketUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_ticket_updates_total",
			Help: "Ticket updates by resulting status",
		}, []string{"status"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_persistence_failures_total",
			Help: "Failed writes to profile storage",
		}, []string{"entry"}),
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_sign_ins_total",
			Help: "Sign-in attempts by result",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.errors,
		m.ticketsCreated,
		m.ticketUpdates,
		m.persistFailures,
		m.signIns,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// TicketCreated counts an opened ticket.
func (m *Metrics) TicketCreated() {
	if m == nil {
		return
	}
	m.ticketsCreated.Inc()
}

// TicketUpdated counts an update by the status it left the ticket in.
func (m *Metrics) TicketUpdated(status string) {
	if m == nil {
		return
	}
	m.ticketUpdates.WithLabelValues(status).Inc()
}

// PersistFailed counts a failed write of a storage entry.
func (m *Metrics) PersistFailed(entry string) {
	if m == nil {
		return
	}
	m.persistFailures.WithLabelValues(entry).Inc()
}

// SignIn counts a sign-in attempt.
func (m *Metrics) SignIn(ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "invalid_credentials"
	}
	m.signIns.WithLabelValues(result).Inc()
}
