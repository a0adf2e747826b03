package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRemoteCheck("login-available", "accepted", 0.02)
	m.IncStaleResponse("password")
	m.IncSubmitAttempt(false)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}

func TestMetrics_Counters(t *testing.T) {
	m := New(nil)

	m.ObserveRemoteCheck("login-available", "accepted", 0.01)
	m.ObserveRemoteCheck("login-available", "accepted", 0.01)
	m.ObserveRemoteCheck("login-available", "rejected", 0.01)
	m.IncStaleResponse("password")
	m.IncSubmitAttempt(true)
	m.IncSubmitAttempt(false)
	m.IncSubmitAttempt(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RemoteChecks.WithLabelValues("login-available", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteChecks.WithLabelValues("login-available", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleResponses.WithLabelValues("password")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubmitAttempts.WithLabelValues("forwarded")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SubmitAttempts.WithLabelValues("blocked")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRemoteCheck("age-eligible", "unconfirmed", 1)
		m.IncStaleResponse("login")
		m.IncSubmitAttempt(true)
	})
}
