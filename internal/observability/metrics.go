package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	adminRequestsTotal   *prometheus.CounterVec
	adminLatencySeconds  *prometheus.HistogramVec
	adminErrorsTotal     *prometheus.CounterVec
	policyDecisionsTotal *prometheus.CounterVec
	auditWritesTotal     *prometheus.CounterVec
	notificationsTotal   *prometheus.CounterVec
	sseClientsActive     prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used for scheduling
// API observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rota_admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rota_admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rota_admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		policyDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rota_policy_decisions_total",
			Help: "Authorization policy decisions by action and verdict.",
		}, []string{"action", "verdict"})

		auditWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rota_audit_writes_total",
			Help: "Audit records written, by action tag and outcome.",
		}, []string{"action", "outcome"})

		notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rota_notifications_published_total",
			Help: "Notifications published to the fan-out pipeline, by type.",
		}, []string{"type"})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rota_sse_clients_active",
			Help: "Currently connected SSE notification subscribers.",
		})

		prometheus.MustRegister(
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
			policyDecisionsTotal,
			auditWritesTotal,
			notificationsTotal,
			sseClientsActive,
		)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// PolicyDecisions exposes the counter for authorization verdicts.
func PolicyDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return policyDecisionsTotal
}

// AuditWrites exposes the counter for audit trail appends.
func AuditWrites() *prometheus.CounterVec {
	RegisterMetrics()
	return auditWritesTotal
}

// NotificationsPublishedTotal exposes the notification publish counter.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsTotal
}

// SSEClientsActive exposes the gauge of connected SSE subscribers.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}
