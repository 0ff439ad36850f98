package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RegistrationsStarted   prometheus.Counter
	RegistrationsCompleted prometheus.Counter
	LoginsStarted          prometheus.Counter
	LoginsCompleted        prometheus.Counter
	DocumentsAdded         prometheus.Counter
	DocumentLookups        *prometheus.CounterVec
	RequestDuration        *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the given registerer.
// Pass prometheus.DefaultRegisterer in main; tests use a fresh registry so
// suites don't collide on duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RegistrationsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "certvault_registrations_started_total",
			Help: "Registration OTP challenges issued",
		}),
		RegistrationsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "certvault_registrations_completed_total",
			Help: "Identities created after successful OTP verification",
		}),
		LoginsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "certvault_logins_started_total",
			Help: "Login OTP challenges issued",
		}),
		LoginsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "certvault_logins_completed_total",
			Help: "Logins completed after successful OTP verification",
		}),
		DocumentsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "certvault_documents_added_total",
			Help: "Certificate records appended to identity collections",
		}),
		DocumentLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "certvault_document_lookups_total",
			Help: "Document match attempts by outcome",
		}, []string{"outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "certvault_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route", "status"}),
	}
}

// RecordLookup tracks a matcher outcome: "found", "not_found" or
// "user_not_found".
func (m *Metrics) RecordLookup(outcome string) {
	if m == nil {
		return
	}
	m.DocumentLookups.WithLabelValues(outcome).Inc()
}
