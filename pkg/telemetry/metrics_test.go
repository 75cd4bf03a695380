package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Fetch(t *testing.T) {
	m := New()

	m.Fetch("getCurrentData", OutcomeOK, 10*time.Millisecond)
	m.Fetch("getCurrentData", OutcomeFallback, 10*time.Millisecond)
	m.Fetch("getCurrentData", OutcomeFallback, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("getCurrentData", OutcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("getCurrentData", OutcomeFallback)))
}

func TestMetrics_StaleAndRefresh(t *testing.T) {
	m := New()

	m.Refresh("full", time.Second)
	m.Refresh("range", time.Second)
	m.Stale("full")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshTotal.WithLabelValues("full")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshTotal.WithLabelValues("range")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.staleResults.WithLabelValues("full")))
}

func TestMetrics_Gauges(t *testing.T) {
	m := New()

	m.SetCurrent("temperature", 25.3)
	m.SetSourceUp(true)
	m.SetClients(3)

	assert.Equal(t, 25.3, testutil.ToFloat64(m.currentValue.WithLabelValues("temperature")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sourceUp))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.viewSubscribers))

	m.SetSourceUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.sourceUp))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.Fetch("getAlerts", OutcomeOK, time.Millisecond)
		m.Refresh("full", time.Millisecond)
		m.Stale("range")
		m.SetCurrent("humidity", 65)
		m.SetSourceUp(true)
		m.SetClients(1)
	})
	assert.Nil(t, m.Registry())
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Fetch("getStatistics", OutcomeOK, time.Millisecond)

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `sensordash_fetch_total{endpoint="getStatistics",outcome="ok"} 1`))
}

func TestNew_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
