package coordinator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pfrederiksen/dieliga/internal/league"
	"github.com/pfrederiksen/dieliga/internal/logger"
	"github.com/pfrederiksen/dieliga/internal/metrics"
	"github.com/pfrederiksen/dieliga/internal/scraper"
	"github.com/pfrederiksen/dieliga/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scoreboardXML = `<results>
	<group>Group A</group>
	<region>Region 1</region>
	<last_change>2026-01-31</last_change>
	<league>Test League</league>
	<table>
		<team><name>Team 1</name><points positive="10" negative="2"/><games>5</games><games_won>4</games_won></team>
		<team><name>Team 2</name><points positive="4" negative="8"/><games>5</games><games_won>1</games_won></team>
	</table>
</results>`

const scheduleXML = `<results>
	<group>Group A</group>
	<region>Region 1</region>
	<day_of_play>
		<game>
			<gamenr>101</gamenr><date>2026-01-01</date><new_date>-</new_date><time>10:00</time>
			<team_a name="Team 1" points="2" sets="3" balls="75"/>
			<team_b name="Team 2" points="0" sets="1" balls="50"/>
			<state>Completed</state>
		</game>
		<game>
			<gamenr>102</gamenr><date>2026-03-01</date><new_date>-</new_date><time>10:00</time>
			<team_a name="Team 2"/><team_b name="Team 3"/>
			<state>planned</state>
		</game>
	</day_of_play>
</results>`

// leagueServer serves both documents. The status and bodies can be changed
// between requests.
type leagueServer struct {
	mu         sync.Mutex
	scoreboard string
	schedule   string
	status     map[string]int
	requests   atomic.Int32
}

func newLeagueServer(t *testing.T) (*leagueServer, *httptest.Server) {
	t.Helper()
	ls := &leagueServer{scoreboard: scoreboardXML, schedule: scheduleXML, status: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ls.requests.Add(1)
		ls.mu.Lock()
		defer ls.mu.Unlock()

		kind := "schedule"
		body := ls.schedule
		if strings.Contains(r.URL.Path, "/summary/") {
			kind = "scoreboard"
			body = ls.scoreboard
		}
		if code := ls.status[kind]; code != 0 {
			w.WriteHeader(code)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return ls, srv
}

func (ls *leagueServer) set(fn func(ls *leagueServer)) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	fn(ls)
}

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) }
}

func newTestCoordinator(t *testing.T, srv *httptest.Server, opts ...Option) *Coordinator {
	t.Helper()
	fetcher := scraper.New(srv.URL, "4711", scraper.WithHTTPClient(srv.Client()))
	base := []Option{WithClock(fixedClock()), WithLocation(time.UTC), WithLogger(logger.NewNop())}
	return New(fetcher, "4711", append(base, opts...)...)
}

func TestCoordinator_InitialState(t *testing.T) {
	_, srv := newLeagueServer(t)
	c := newTestCoordinator(t, srv)

	snap := c.Snapshot()
	require.NotNil(t, snap)
	assert.True(t, snap.IsEmpty())
	assert.Equal(t, league.Unknown, snap.Scoreboard.League)
	assert.Empty(t, snap.Schedule.Games)
	assert.False(t, c.LastUpdateSuccess())
}

func TestCoordinator_Refresh(t *testing.T) {
	_, srv := newLeagueServer(t)
	m := metrics.NewMock()
	c := newTestCoordinator(t, srv, WithMetrics(m))

	require.NoError(t, c.Refresh(context.Background()))
	assert.True(t, c.LastUpdateSuccess())

	snap := c.Snapshot()
	assert.Equal(t, "Test League", snap.Scoreboard.League)
	require.Len(t, snap.Scoreboard.Teams, 2)
	assert.Equal(t, 2, snap.Schedule.TotalGames)
	assert.Equal(t, 1, snap.Schedule.CompletedGames)
	assert.Equal(t, fixedClock()(), snap.FetchedAt)

	pos, ok := league.PositionOf(&snap.Scoreboard, "TEAM 2")
	require.True(t, ok)
	assert.Equal(t, 2, pos)

	assert.Equal(t, 1, m.Refreshes())
	assert.Equal(t, 1, m.FetchCount("scoreboard"))
	assert.Equal(t, 1, m.FetchCount("schedule"))
	teams, total, completed := m.Snapshot()
	assert.Equal(t, []int{2, 2, 1}, []int{teams, total, completed})
	assert.Equal(t, fixedClock()(), m.LastSuccess())

	at, err := c.Status()
	assert.NoError(t, err)
	assert.Equal(t, fixedClock()(), at)
}

func TestCoordinator_FailureKeepsPreviousSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		breakFn  func(ls *leagueServer)
		sentinel error
		kind     string
		requests int32
	}{
		{
			name:     "scoreboard unavailable",
			breakFn:  func(ls *leagueServer) { ls.status["scoreboard"] = http.StatusInternalServerError },
			sentinel: scraper.ErrTransport,
			kind:     FailureTransport,
			requests: 1,
		},
		{
			name:     "schedule not found",
			breakFn:  func(ls *leagueServer) { ls.status["schedule"] = http.StatusNotFound },
			sentinel: scraper.ErrTransport,
			kind:     FailureTransport,
			requests: 2,
		},
		{
			name:     "malformed schedule",
			breakFn:  func(ls *leagueServer) { ls.schedule = "<results><group>Group A</group>" },
			sentinel: scraper.ErrParse,
			kind:     FailureParse,
			requests: 2,
		},
		{
			name:     "malformed scoreboard skips schedule",
			breakFn:  func(ls *leagueServer) { ls.scoreboard = "<results>" },
			sentinel: scraper.ErrParse,
			kind:     FailureParse,
			requests: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ls, srv := newLeagueServer(t)
			m := metrics.NewMock()
			c := newTestCoordinator(t, srv, WithMetrics(m))

			require.NoError(t, c.Refresh(context.Background()))
			before := c.Snapshot()
			ls.requests.Store(0)

			ls.set(tt.breakFn)
			err := c.Refresh(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.Contains(t, err.Error(), "refresh league 4711")

			assert.Same(t, before, c.Snapshot(), "previous pair stays published")
			assert.Equal(t, fixedClock()(), c.Snapshot().FetchedAt)
			assert.False(t, c.LastUpdateSuccess())
			assert.Equal(t, 1, m.Failures(tt.kind))
			assert.Equal(t, tt.requests, ls.requests.Load())

			_, lastErr := c.Status()
			assert.Error(t, lastErr)

			// Recovery publishes a new pair again.
			ls.set(func(ls *leagueServer) {
				ls.status = map[string]int{}
				ls.scoreboard = scoreboardXML
				ls.schedule = scheduleXML
			})
			require.NoError(t, c.Refresh(context.Background()))
			assert.True(t, c.LastUpdateSuccess())
			assert.NotSame(t, before, c.Snapshot())
		})
	}
}

func TestCoordinator_FirstRefreshFailsKeepsDefaults(t *testing.T) {
	ls, srv := newLeagueServer(t)
	ls.set(func(ls *leagueServer) { ls.status["scoreboard"] = http.StatusServiceUnavailable })
	c := newTestCoordinator(t, srv)

	require.Error(t, c.Refresh(context.Background()))
	assert.True(t, c.Snapshot().IsEmpty())
	assert.Equal(t, league.Unknown, c.Snapshot().Scoreboard.Group)
}

func TestCoordinator_StoreAndSeed(t *testing.T) {
	_, srv := newLeagueServer(t)
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	c := newTestCoordinator(t, srv, WithStore(store))
	found, err := c.Seed()
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Refresh(context.Background()))

	// A new process starts from the stored pair without fetching.
	restarted := New(nil, "4711", WithStore(store), WithLogger(logger.NewNop()))
	found, err = restarted.Seed()
	require.NoError(t, err)
	require.True(t, found)

	snap := restarted.Snapshot()
	assert.Equal(t, "Test League", snap.Scoreboard.League)
	assert.Equal(t, 2, snap.Schedule.TotalGames)
	assert.False(t, restarted.LastUpdateSuccess())
}

func TestCoordinator_OnUpdate(t *testing.T) {
	ls, srv := newLeagueServer(t)

	var calls []struct{ prev, next *league.Snapshot }
	c := newTestCoordinator(t, srv, OnUpdate(func(_ context.Context, prev, next *league.Snapshot) {
		calls = append(calls, struct{ prev, next *league.Snapshot }{prev, next})
	}))

	require.NoError(t, c.Refresh(context.Background()))
	require.Len(t, calls, 1)
	assert.True(t, calls[0].prev.IsEmpty())

	ls.set(func(ls *leagueServer) {
		ls.schedule = strings.Replace(scheduleXML,
			"<date>2026-03-01</date><new_date>-</new_date>",
			"<date>2026-03-01</date><new_date>2026-03-08</new_date>", 1)
	})
	require.NoError(t, c.Refresh(context.Background()))
	require.Len(t, calls, 2)

	changes := league.DiffSchedules(&calls[1].prev.Schedule, &calls[1].next.Schedule)
	require.Len(t, changes, 1)
	assert.Equal(t, "102", changes[0].GameNumber)
	assert.Equal(t, league.ChangeDate, changes[0].ChangeType)
	assert.Equal(t, "2026-03-08", changes[0].NewValue)

	ls.set(func(ls *leagueServer) { ls.status["schedule"] = http.StatusBadGateway })
	require.Error(t, c.Refresh(context.Background()))
	assert.Len(t, calls, 2, "failed refreshes do not notify")
}

func TestCoordinator_ConcurrentReaders(t *testing.T) {
	_, srv := newLeagueServer(t)
	c := newTestCoordinator(t, srv)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					snap := c.Snapshot()
					if snap == nil || snap.Scoreboard.Teams == nil {
						t.Error("reader observed an incomplete snapshot")
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Refresh(context.Background()))
	}
	close(stop)
	wg.Wait()
}

func TestCoordinator_Run(t *testing.T) {
	ls, srv := newLeagueServer(t)
	c := newTestCoordinator(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, "@every 1h") }()

	require.Eventually(t, c.LastUpdateSuccess, 5*time.Second, 10*time.Millisecond, "immediate refresh at start")
	assert.Equal(t, int32(2), ls.requests.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestCoordinator_RunInvalidSpec(t *testing.T) {
	_, srv := newLeagueServer(t)
	m := metrics.NewMock()
	c := newTestCoordinator(t, srv, WithMetrics(m))

	err := c.Run(context.Background(), "every tuesday")
	require.Error(t, err)
	assert.Equal(t, 0, m.Refreshes(), "no refresh without a valid schedule")
}
