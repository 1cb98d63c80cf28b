package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Push(t *testing.T) {
	var body []byte
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMetricsForTesting()
	m.RunsTotal.Inc()

	require.NoError(t, m.Push(context.Background(), srv.URL))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/"+PushJob, path)
	assert.NotEmpty(t, body)
}

func TestMetrics_PushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewMetricsForTesting().Push(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "push metrics")
}

func TestNewMetricsForTesting_GathersReportMetrics(t *testing.T) {
	m := NewMetricsForTesting()
	m.VenuesFailed.WithLabelValues("fetch").Inc()

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["daily_report_runs_total"])
	assert.True(t, names["daily_report_venues_failed_total"])
	assert.False(t, names["go_goroutines"], "test registry carries no runtime collectors")
}
