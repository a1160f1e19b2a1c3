package observability_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics()
	m.Register(reg)

	m.Challenge(observability.OutcomeIssued)
	m.Challenge(observability.OutcomeIssued)
	m.Verification(observability.OutcomeInvalidCode)
	m.Registration(observability.OutcomeCreated)
	m.Delivery("log", true, 10*time.Millisecond)
	m.Pruned(3)
	m.Pruned(0)

	assert.InDelta(t, 2, testutil.ToFloat64(m.Challenges.WithLabelValues(observability.OutcomeIssued)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Verifications.WithLabelValues(observability.OutcomeInvalidCode)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Registrations.WithLabelValues(observability.OutcomeCreated)), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.LedgerPruned), 0)

	n, err := testutil.GatherAndCount(reg, "otpauth_delivery_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() {
		m.Challenge(observability.OutcomeIssued)
		m.Verification(observability.OutcomeVerified)
		m.Registration(observability.OutcomeExists)
		m.Delivery("twilio", false, time.Second)
		m.Pruned(1)
	})
}

func TestRegisterTwicePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics()
	m.Register(reg)
	assert.Panics(t, func() { m.Register(reg) })
}
