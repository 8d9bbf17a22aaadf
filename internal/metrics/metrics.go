// Package metrics exposes Prometheus instruments for assignment, invitations
// and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/festy23/workmatch/internal/database/database"
)

const namespace = "workmatch"

// Assignment outcomes.
const (
	OutcomeCreated  = "created"
	OutcomeExisting = "existing"
	OutcomeLostRace = "lost_race"
	OutcomeTimeout  = "timeout"
	OutcomeFailed   = "failed"
)

// Invitation outcomes.
const (
	InvitationApplied  = "applied"
	InvitationAlready  = "already_processed"
	InvitationConflict = "conflict"
)

// Metrics holds the service instruments. A nil *Metrics is a valid no-op.
type Metrics struct {
	registry          *prometheus.Registry
	assignments       *prometheus.CounterVec
	selectionDuration *prometheus.HistogramVec
	invitations       *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New registers all instruments on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignment_total",
			Help:      "Daily batch ensure calls by actor type and outcome.",
		}, []string{"actor_type", "outcome"}),
		selectionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_duration_seconds",
			Help:      "Candidate selector latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"actor_type"}),
		invitations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitation_transitions_total",
			Help:      "Invitation accept/decline calls by outcome.",
		}, []string{"action", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.assignments,
		m.selectionDuration,
		m.invitations,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RegisterDBStats exposes connection pool gauges for db.
func (m *Metrics) RegisterDBStats(db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	gauge := func(name, help string, read func(open, inUse, idle int) int) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      name,
			Help:      help,
		}, func() float64 {
			stats, err := database.GetStats(db)
			if err != nil {
				return 0
			}
			return float64(read(stats.OpenConnections, stats.InUse, stats.Idle))
		})
	}
	m.registry.MustRegister(
		gauge("open_connections", "Open connections.", func(open, _, _ int) int { return open }),
		gauge("in_use_connections", "Connections in use.", func(_, inUse, _ int) int { return inUse }),
		gauge("idle_connections", "Idle connections.", func(_, _, idle int) int { return idle }),
	)
}

// ObserveAssignment counts one ensure call.
func (m *Metrics) ObserveAssignment(actorType, outcome string) {
	if m == nil {
		return
	}
	m.assignments.WithLabelValues(actorType, outcome).Inc()
}

// ObserveSelection records how long a selector run took.
func (m *Metrics) ObserveSelection(actorType string, d time.Duration) {
	if m == nil {
		return
	}
	m.selectionDuration.WithLabelValues(actorType).Observe(d.Seconds())
}

// ObserveInvitation counts one accept/decline call.
func (m *Metrics) ObserveInvitation(action, outcome string) {
	if m == nil {
		return
	}
	m.invitations.WithLabelValues(action, outcome).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
