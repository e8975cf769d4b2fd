package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by kind (login|register) and result.
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrms_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"kind", "result"},
	)

	// AuditEvents counts audit log rows written, by action tag.
	AuditEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrms_audit_events_total",
			Help: "Total number of audit log entries recorded",
		},
		[]string{"action"},
	)

	// Organisations tracks the number of registered organisations.
	Organisations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hrms_organisations",
			Help: "Number of registered organisations",
		},
	)

	// Employees tracks the number of employees across all organisations.
	Employees = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hrms_employees",
			Help: "Number of employees across all organisations",
		},
	)

	// Teams tracks the number of teams across all organisations.
	Teams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hrms_teams",
			Help: "Number of teams across all organisations",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hrms_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

var (
	// MaintenanceRuns counts maintenance job executions by job and result.
	MaintenanceRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrms_maintenance_runs_total",
			Help: "Total number of maintenance job runs",
		},
		[]string{"job", "result"},
	)

	// MaintenanceDuration measures maintenance job durations.
	MaintenanceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hrms_maintenance_duration_seconds",
			Help:    "Maintenance job duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)
)
