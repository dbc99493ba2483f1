package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorExposesInstruments(t *testing.T) {
	c := NewCollector()
	c.WindowsFetched.Inc()
	c.EventsFetched.Add(42)
	c.SnapshotsWritten.WithLabelValues("daily").Inc()
	c.NATSConnected.Set(1)
	c.WindowDuration.Observe(0.25)
	c.StepDuration.WithLabelValues("process").Observe(1.5)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "traintrips_windows_fetched_total 1")
	assert.Contains(t, body, "traintrips_events_fetched_total 42")
	assert.Contains(t, body, `traintrips_snapshots_written_total{kind="daily"} 1`)
	assert.Contains(t, body, "traintrips_nats_connected 1")
	assert.Contains(t, body, `traintrips_step_seconds_count{step="process"} 1`)
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector()
	b := NewCollector()
	a.TripsBuilt.Add(7)

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "traintrips_trips_built_total 0")
}
