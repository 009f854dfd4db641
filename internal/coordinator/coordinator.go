// Package coordinator runs the refresh cycle of one league and publishes the
// resulting snapshot pair to concurrent readers.
package coordinator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pfrederiksen/dieliga/internal/league"
	"github.com/pfrederiksen/dieliga/internal/logger"
	"github.com/pfrederiksen/dieliga/internal/metrics"
	"github.com/pfrederiksen/dieliga/internal/scraper"
)

// Source returns the raw document of one kind.
type Source interface {
	Fetch(ctx context.Context, kind scraper.Kind) (string, error)
}

// Store keeps the last published snapshot across restarts.
type Store interface {
	Load(leagueID string) (*league.Snapshot, bool, error)
	Save(leagueID string, snapshot *league.Snapshot) error
}

// UpdateFunc is called after every successful refresh with the replaced and
// the new snapshot. prev is the empty snapshot on the first refresh.
type UpdateFunc func(ctx context.Context, prev, next *league.Snapshot)

// Failure kinds reported to metrics.
const (
	FailureTransport = "transport"
	FailureParse     = "parse"
	FailureOther     = "other"
)

// Coordinator owns the current snapshot pair. Refresh is the only writer;
// Snapshot never blocks.
type Coordinator struct {
	source   Source
	leagueID string
	loc      *time.Location
	now      func() time.Time
	metrics  metrics.Metrics
	store    Store
	log      *logger.Logger
	onUpdate []UpdateFunc

	current     atomic.Pointer[league.Snapshot]
	lastSuccess atomic.Bool

	// refreshMu serializes writers.
	refreshMu   sync.Mutex
	statusMu    sync.RWMutex
	lastAttempt time.Time
	lastErr     error
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithLocation sets the time zone used for completion counts.
func WithLocation(loc *time.Location) Option {
	return func(c *Coordinator) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMetrics records refresh metrics.
func WithMetrics(m metrics.Metrics) Option {
	return func(c *Coordinator) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithStore persists every published snapshot.
func WithStore(s Store) Option {
	return func(c *Coordinator) {
		c.store = s
	}
}

// WithLogger sets the logger. The package default is used otherwise.
func WithLogger(l *logger.Logger) Option {
	return func(c *Coordinator) {
		c.log = l
	}
}

// OnUpdate registers fn to run after each successful refresh.
func OnUpdate(fn UpdateFunc) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.onUpdate = append(c.onUpdate, fn)
		}
	}
}

// New creates a Coordinator for leagueID that starts with the empty snapshot.
func New(source Source, leagueID string, opts ...Option) *Coordinator {
	c := &Coordinator{
		source:   source,
		leagueID: leagueID,
		loc:      time.Local,
		now:      time.Now,
		metrics:  metrics.NewMock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Default()
	}
	c.current.Store(league.EmptySnapshot())
	return c
}

// LeagueID returns the league this coordinator refreshes.
func (c *Coordinator) LeagueID() string {
	return c.leagueID
}

// Location returns the time zone used for date logic.
func (c *Coordinator) Location() *time.Location {
	return c.loc
}

// Snapshot returns the current snapshot pair. It is never nil and must not be
// modified.
func (c *Coordinator) Snapshot() *league.Snapshot {
	return c.current.Load()
}

// LastUpdateSuccess reports whether the most recent refresh succeeded.
// It is false before the first refresh.
func (c *Coordinator) LastUpdateSuccess() bool {
	return c.lastSuccess.Load()
}

// Status returns the time and error of the most recent refresh attempt.
func (c *Coordinator) Status() (lastAttempt time.Time, lastErr error) {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.lastAttempt, c.lastErr
}

// Seed publishes the stored snapshot, if any, so readers get stale data
// before the first refresh. It reports whether a snapshot was found.
func (c *Coordinator) Seed() (bool, error) {
	if c.store == nil {
		return false, nil
	}
	snap, ok, err := c.store.Load(c.leagueID)
	if err != nil {
		return false, errors.Wrapf(err, "seed league %s", c.leagueID)
	}
	if !ok {
		return false, nil
	}
	c.current.Store(snap)
	c.log.Info("Seeded from stored snapshot", logger.Fields{
		"league_id":  c.leagueID,
		"fetched_at": snap.FetchedAt.Format(time.RFC3339),
	})
	return true, nil
}

// Refresh fetches the scoreboard and then the schedule and publishes them as
// one snapshot. If either step fails the previous snapshot stays published.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.metrics.IncRefresh()
	now := c.now()

	next, err := c.fetchPair(ctx, now)
	c.setStatus(now, err)
	if err != nil {
		c.lastSuccess.Store(false)
		c.metrics.IncRefreshFailure(failureKind(err))
		return errors.Wrapf(err, "refresh league %s", c.leagueID)
	}

	prev := c.current.Swap(next)
	c.lastSuccess.Store(true)

	c.metrics.SetSnapshot(len(next.Scoreboard.Teams), next.Schedule.TotalGames, next.Schedule.CompletedGames)
	c.metrics.SetLastSuccess(now)

	c.log.Info("Refreshed league", logger.Fields{
		"league_id":       c.leagueID,
		"teams":           len(next.Scoreboard.Teams),
		"total_games":     next.Schedule.TotalGames,
		"completed_games": next.Schedule.CompletedGames,
	})

	if c.store != nil {
		if err := c.store.Save(c.leagueID, next); err != nil {
			c.log.Warn("Failed to persist snapshot", logger.Fields{"league_id": c.leagueID, "error": err.Error()})
		}
	}

	for _, fn := range c.onUpdate {
		fn(ctx, prev, next)
	}

	return nil
}

func (c *Coordinator) fetchPair(ctx context.Context, now time.Time) (*league.Snapshot, error) {
	rawScoreboard, err := c.timedFetch(ctx, scraper.KindScoreboard)
	if err != nil {
		return nil, err
	}
	sb, err := scraper.ParseScoreboard(rawScoreboard)
	if err != nil {
		return nil, err
	}

	rawSchedule, err := c.timedFetch(ctx, scraper.KindSchedule)
	if err != nil {
		return nil, err
	}
	s, err := scraper.ParseScheduleAt(rawSchedule, now, c.loc)
	if err != nil {
		return nil, err
	}

	return &league.Snapshot{
		Scoreboard: *sb,
		Schedule:   *s,
		FetchedAt:  now,
	}, nil
}

func (c *Coordinator) timedFetch(ctx context.Context, kind scraper.Kind) (string, error) {
	start := time.Now()
	raw, err := c.source.Fetch(ctx, kind)
	c.metrics.ObserveFetchDuration(string(kind), time.Since(start).Seconds())
	return raw, err
}

func (c *Coordinator) setStatus(at time.Time, err error) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	c.lastAttempt = at
	c.lastErr = err
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, scraper.ErrTransport):
		return FailureTransport
	case errors.Is(err, scraper.ErrParse):
		return FailureParse
	default:
		return FailureOther
	}
}
