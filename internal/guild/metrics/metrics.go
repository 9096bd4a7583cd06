package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the admission and referral flows.
// All methods are safe on a nil receiver so services can run without it.
type Metrics struct {
	registry *prometheus.Registry

	ApplicationsSubmitted prometheus.Counter
	Decisions             *prometheus.CounterVec
	Registrations         *prometheus.CounterVec
	Referrals             *prometheus.CounterVec
	Notifications         *prometheus.CounterVec
	ExpiredInvitations    prometheus.Gauge
	OperationDuration     *prometheus.HistogramVec
}

// New creates a Metrics instance on its own registry, alongside the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ApplicationsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "guild_applications_submitted_total",
			Help: "Total number of membership applications submitted",
		}),
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "guild_application_decisions_total",
			Help: "Application decisions by outcome",
		}, []string{"decision"}),
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "guild_registrations_total",
			Help: "Invitation redemption attempts by result",
		}, []string{"result"}),
		Referrals: f.NewCounterVec(prometheus.CounterOpts{
			Name: "guild_referral_events_total",
			Help: "Referrals created and status transitions, by resulting status",
		}, []string{"status"}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "guild_notifications_total",
			Help: "Outbound notifications by kind and outcome",
		}, []string{"kind", "outcome"}),
		ExpiredInvitations: f.NewGauge(prometheus.GaugeOpts{
			Name: "guild_invitations_expired_unused",
			Help: "Invitations past their expiry that were never redeemed",
		}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guild_operation_duration_seconds",
			Help:    "Duration of core admission and referral operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) IncApplicationSubmitted() {
	if m == nil {
		return
	}
	m.ApplicationsSubmitted.Inc()
}

func (m *Metrics) IncDecision(decision string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(decision).Inc()
}

// IncRegistration records a redemption attempt. result is one of ok,
// invalid_token, rejected or error.
func (m *Metrics) IncRegistration(result string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(result).Inc()
}

func (m *Metrics) IncReferral(status string) {
	if m == nil {
		return
	}
	m.Referrals.WithLabelValues(status).Inc()
}

// ObserveNotification matches notify.DispatcherConfig.OnResult once the
// kind is converted to a string.
func (m *Metrics) ObserveNotification(kind, outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) SetExpiredInvitations(n int) {
	if m == nil {
		return
	}
	m.ExpiredInvitations.Set(float64(n))
}

// ObserveOperation records how long op took. Call with time.Now() captured
// at the start of the operation.
func (m *Metrics) ObserveOperation(op string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
