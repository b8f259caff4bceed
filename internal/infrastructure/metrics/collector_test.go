package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Observations(t *testing.T) {
	c := NewCollector("test")

	c.ObserveNavigation(true, true, 1, 2*time.Second)
	c.ObserveNavigation(true, false, 0, time.Second)
	c.ObserveSnapshot(true)
	c.ObserveInvoke("agent_executor", "ok")
	c.ObserveInvoke("agent_executor", "ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.navigationsTotal.WithLabelValues("true", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.navigationsTotal.WithLabelValues("true", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.snapshotsTotal.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.invokesTotal.WithLabelValues("agent_executor", "ok")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("mcp")
	c.ObserveSnapshot(false)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `mcp_snapshots_total{cached="false"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
