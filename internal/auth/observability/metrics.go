// Package observability holds the Prometheus metrics for the auth flow.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeIssued          = "issued"
	OutcomeVerified        = "verified"
	OutcomeCreated         = "created"
	OutcomeInvalidInput    = "invalid_input"
	OutcomeNotFound        = "not_found"
	OutcomeExists          = "exists"
	OutcomeInvalidCode     = "invalid_code"
	OutcomeExpired         = "expired"
	OutcomeReplayed        = "replayed"
	OutcomeTooManyAttempts = "too_many_attempts"
	OutcomeUnverified      = "delivery_unverified"
	OutcomeError           = "error"
)

// Metrics groups the collectors. A nil *Metrics records nothing, which keeps
// tests free of registry setup.
type Metrics struct {
	Challenges      *prometheus.CounterVec
	Verifications   *prometheus.CounterVec
	Registrations   *prometheus.CounterVec
	DeliveryLatency *prometheus.HistogramVec
	LedgerPruned    prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		Challenges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otpauth_challenges_total",
			Help: "Login challenges by outcome",
		}, []string{"outcome"}),
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otpauth_verifications_total",
			Help: "Code verifications by outcome",
		}, []string{"outcome"}),
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otpauth_registrations_total",
			Help: "Sign-ups by outcome",
		}, []string{"outcome"}),
		DeliveryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "otpauth_delivery_duration_seconds",
			Help:    "Time spent handing a code to the delivery provider",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "result"}),
		LedgerPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "otpauth_ledger_pruned_total",
			Help: "Expired challenge ledger records removed by housekeeping",
		}),
	}
}

// Register adds every collector to reg. Panics on duplicate registration,
// following the prometheus convention.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(m.Challenges, m.Verifications, m.Registrations, m.DeliveryLatency, m.LedgerPruned)
}

func (m *Metrics) Challenge(outcome string) {
	if m != nil {
		m.Challenges.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Verification(outcome string) {
	if m != nil {
		m.Verifications.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Registration(outcome string) {
	if m != nil {
		m.Registrations.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Delivery(provider string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.DeliveryLatency.WithLabelValues(provider, result).Observe(d.Seconds())
}

func (m *Metrics) Pruned(n int64) {
	if m != nil && n > 0 {
		m.LedgerPruned.Add(float64(n))
	}
}
