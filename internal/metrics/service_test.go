package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncRefresh()
	s.IncRefresh()
	s.IncRefreshFailure("transport")
	s.ObserveFetchDuration("scoreboard", 0.2)
	s.SetSnapshot(8, 56, 20)
	s.SetLastSuccess(time.Unix(1767225600, 0))

	assert.Equal(t, 2.0, testutil.ToFloat64(s.Refreshes))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.RefreshFailures.WithLabelValues("transport")))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.RefreshFailures.WithLabelValues("parse")))
	assert.Equal(t, 8.0, testutil.ToFloat64(s.Teams))
	assert.Equal(t, 56.0, testutil.ToFloat64(s.GamesTotal))
	assert.Equal(t, 20.0, testutil.ToFloat64(s.GamesCompleted))
	assert.Equal(t, 1767225600.0, testutil.ToFloat64(s.LastSuccess))
	assert.Equal(t, 1, testutil.CollectAndCount(s.FetchDuration))
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.IncRefresh()

	srv := httptest.NewServer(NewMetricsHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "dieliga_refresh_total 1")
	assert.Contains(t, string(body), "dieliga_teams 0")
}

func TestMock(t *testing.T) {
	m := NewMock()

	m.IncRefresh()
	m.IncRefreshFailure("parse")
	m.IncRefreshFailure("parse")
	m.ObserveFetchDuration("schedule", 0.1)
	m.SetSnapshot(3, 10, 4)
	now := time.Now()
	m.SetLastSuccess(now)

	assert.Equal(t, 1, m.Refreshes())
	assert.Equal(t, 2, m.Failures("parse"))
	assert.Equal(t, 0, m.Failures("transport"))
	assert.Equal(t, 1, m.FetchCount("schedule"))
	teams, total, completed := m.Snapshot()
	assert.Equal(t, []int{3, 10, 4}, []int{teams, total, completed})
	assert.Equal(t, now, m.LastSuccess())
}
