package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegisterer(registry)

	if m.AccountsRegistered == nil || m.HTTPRequests == nil || m.SettlementResults == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.AccountRegistered()
	m.HTTPRequests.WithLabelValues("GET", "/health", "200").Inc()

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, metricFamilies)
}

func TestRecorderMethods(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.AccountRegistered()
	m.LoginAttempt("success")
	m.LoginAttempt("success")
	m.OrderCreated("Basic")
	m.SettlementResult("settled")
	m.SettlementResult("already_settled")
	m.GatewayCall("fetch_order", 20*time.Millisecond, nil)
	m.GatewayCall("fetch_order", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccountsRegistered))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersCreated.WithLabelValues("Basic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SettlementResults.WithLabelValues("settled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SettlementResults.WithLabelValues("already_settled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayCalls.WithLabelValues("fetch_order", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayCalls.WithLabelValues("fetch_order", "error")))
}
