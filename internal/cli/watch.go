package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pfrederiksen/dieliga/internal/coordinator"
	"github.com/pfrederiksen/dieliga/internal/httpapi"
	"github.com/pfrederiksen/dieliga/internal/league"
	"github.com/pfrederiksen/dieliga/internal/logger"
	"github.com/pfrederiksen/dieliga/internal/metrics"
	"github.com/pfrederiksen/dieliga/internal/notifier"
	"github.com/pfrederiksen/dieliga/internal/telegram"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newWatchCmd(o *options) *cobra.Command {
	var addr string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh on a schedule, serve the HTTP API and send notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				o.cfg.HTTPAddr = addr
			}

			notifiers := notifier.Multi{notifier.NewLogNotifier(o.log)}
			if dryRun {
				notifiers = append(notifiers, notifier.NewWriterNotifier(cmd.OutOrStdout()))
			} else if o.cfg.TelegramEnabled() {
				client, err := telegram.NewClient(o.cfg.TelegramBotToken, o.cfg.TelegramChatID)
				if err != nil {
					return fmt.Errorf("creating telegram client: %w", err)
				}
				notifiers = append(notifiers, telegram.NewNotifier(client))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return o.watch(ctx, notifiers)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides DIELIGA_HTTP_ADDR)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print notifications to stdout instead of sending them to Telegram")
	return cmd
}

// watch runs the refresh loop and the HTTP API until ctx is done.
func (o *options) watch(ctx context.Context, n notifier.Notifier) error {
	store, err := o.store()
	if err != nil {
		return err
	}

	w := newWatcher(o.cfg.TeamName, n, o.cfg.Location, o.now, o.log)
	coord := coordinator.New(o.fetcher(), o.cfg.LeagueKey(),
		coordinator.WithLocation(o.cfg.Location),
		coordinator.WithClock(o.now),
		coordinator.WithStore(store),
		coordinator.WithMetrics(metrics.NewService()),
		coordinator.WithLogger(o.log),
		coordinator.OnUpdate(w.onUpdate),
	)
	if _, err := coord.Seed(); err != nil {
		o.log.Warn("Ignoring unreadable stored snapshot", logger.Fields{"error": err.Error()})
	}

	router := httpapi.NewRouter(httpapi.NewHandler(coord, o.cfg.TeamName), metrics.NewMetricsHandler(), o.log)
	srv := httpapi.NewServer(o.cfg.HTTPAddr, router)

	serveErr := make(chan error, 1)
	go func() {
		o.log.Info("HTTP API listening", logger.Fields{"addr": o.cfg.HTTPAddr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- coord.Run(runCtx, o.cfg.RefreshSpec()) }()

	var result error
	select {
	case err := <-serveErr:
		if err != nil {
			result = errors.Wrap(err, "serve http api")
		}
		cancel()
		if err := <-runErr; err != nil && result == nil {
			result = err
		}
	case err := <-runErr:
		result = err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		o.log.Warn("HTTP API shutdown incomplete", logger.Fields{"error": err.Error()})
	}
	return result
}

// watcher turns snapshot updates into notifications: schedule changes after
// every refresh and a match-day notice at most once per calendar day.
type watcher struct {
	team     string
	notifier notifier.Notifier
	loc      *time.Location
	now      func() time.Time
	log      *logger.Logger

	mu          sync.Mutex
	notifiedDay string
}

func newWatcher(team string, n notifier.Notifier, loc *time.Location, now func() time.Time, log *logger.Logger) *watcher {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Default()
	}
	return &watcher{team: team, notifier: n, loc: loc, now: now, log: log}
}

func (w *watcher) onUpdate(ctx context.Context, prev, next *league.Snapshot) {
	// The first snapshot has nothing to compare against.
	if !prev.IsEmpty() {
		changes := league.DiffSchedules(&prev.Schedule, &next.Schedule)
		if w.team != "" {
			changes = league.FilterChanges(changes, w.team)
		}
		if len(changes) > 0 {
			if err := w.notifier.NotifyChanges(ctx, changes); err != nil {
				w.log.Error("Change notification failed", logger.Fields{"changes": len(changes)}, err)
			}
		}
	}

	if w.team == "" {
		return
	}

	today := w.now().In(w.loc)
	day := today.Format(league.DayLayout)
	matches := league.MatchesOn(&next.Schedule, w.team, today)
	if len(matches) == 0 {
		return
	}

	w.mu.Lock()
	if w.notifiedDay == day {
		w.mu.Unlock()
		return
	}
	w.notifiedDay = day
	w.mu.Unlock()

	if err := w.notifier.NotifyMatchDay(ctx, w.team, matches); err != nil {
		w.log.Error("Match day notification failed", logger.Fields{"team": w.team, "day": day}, err)
	}
}
