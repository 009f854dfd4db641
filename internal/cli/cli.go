package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pfrederiksen/dieliga/internal/config"
	"github.com/pfrederiksen/dieliga/internal/coordinator"
	"github.com/pfrederiksen/dieliga/internal/league"
	"github.com/pfrederiksen/dieliga/internal/logger"
	"github.com/pfrederiksen/dieliga/internal/scraper"
	"github.com/pfrederiksen/dieliga/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitMatchToday = 2
)

// exitError carries a non-zero exit code out of a command. A nil err means
// the code is the result, not a failure, and nothing is printed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// options holds the persistent flags and the state resolved from them.
type options struct {
	format   string
	verbose  bool
	offline  bool
	envFile  string
	leagueID int
	baseURL  string
	team     string
	dataDir  string
	timezone string

	cfg config.Config
	log *logger.Logger
	now func() time.Time
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{now: time.Now})
}

func newRootCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dieliga",
		Short: "Standings, schedule and calendar of a dieLiga league",
		Long: `A CLI tool for dieLiga leagues.
Fetches the league table and match plan, reports standings, completion and
match days, exports the calendar and can serve the data over HTTP.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: o.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.format, "format", "text", "Output format: text or json")
	flags.BoolVar(&o.verbose, "verbose", false, "Enable verbose logging")
	flags.BoolVar(&o.offline, "offline", false, "Use the stored snapshot instead of fetching")
	flags.StringVar(&o.envFile, "env-file", ".env", "Path to a .env file")
	flags.IntVar(&o.leagueID, "league-id", 0, "League id (overrides DIELIGA_LEAGUE_ID)")
	flags.StringVar(&o.baseURL, "base-url", "", "Service base URL (overrides DIELIGA_BASE_URL)")
	flags.StringVar(&o.team, "team", "", "Team name (overrides DIELIGA_TEAM_NAME)")
	flags.StringVar(&o.dataDir, "data-dir", "", "Data directory for snapshots (overrides DIELIGA_DATA_DIR)")
	flags.StringVar(&o.timezone, "timezone", "", "IANA time zone for date logic (overrides DIELIGA_TIMEZONE)")

	cmd.AddCommand(
		newCheckCmd(o),
		newStandingsCmd(o),
		newScheduleCmd(o),
		newTodayCmd(o),
		newCalendarCmd(o),
		newWatchCmd(o),
	)

	return cmd
}

// setup resolves configuration: environment first, then flags that were set
// explicitly, then validation.
func (o *options) setup(cmd *cobra.Command, _ []string) error {
	format := OutputFormat(strings.ToLower(o.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}
	o.format = string(format)

	cfg, err := config.Read(o.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("league-id") {
		cfg.LeagueID = o.leagueID
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = strings.TrimRight(strings.TrimSpace(o.baseURL), "/")
	}
	if flags.Changed("team") {
		cfg.TeamName = strings.TrimSpace(o.team)
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = o.dataDir
	}
	if flags.Changed("timezone") {
		cfg.Timezone = o.timezone
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	level := logger.ParseLevel(cfg.LogLevel)
	if o.verbose {
		level = logger.LevelDebug
	}
	o.log = logger.New(level, cmd.ErrOrStderr())
	logger.SetDefault(o.log)

	o.log.Debug("Configuration loaded", logger.Fields{
		"league_id": cfg.LeagueID,
		"base_url":  cfg.BaseURL,
		"team":      cfg.TeamName,
		"data_dir":  cfg.DataDir,
		"timezone":  cfg.Location.String(),
	})
	return nil
}

func (o *options) outputFormat() OutputFormat {
	return OutputFormat(o.format)
}

func (o *options) fetcher() *scraper.Fetcher {
	return scraper.New(o.cfg.BaseURL, o.cfg.LeagueKey(), scraper.WithTimeout(o.cfg.HTTPTimeout))
}

// store returns the Gist store when one is configured, otherwise the data
// directory.
func (o *options) store() (coordinator.Store, error) {
	if o.cfg.GistID != "" {
		o.log.Debug("Using gist storage", logger.Fields{"gist_id": o.cfg.GistID, "encrypted": o.cfg.StorageKey != ""})
		return storage.NewGistStore(o.cfg.GistID, o.cfg.GitHubToken, storage.WithEncryptionKey(o.cfg.StorageKey))
	}
	store, err := storage.New(o.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	o.log.Debug("Using file storage", logger.Fields{"dir": store.Dir()})
	return store, nil
}

// loadSnapshot returns the stored snapshot in offline mode. Otherwise it
// refreshes from the service and falls back to the stored snapshot when the
// refresh fails.
func (o *options) loadSnapshot(ctx context.Context) (*league.Snapshot, error) {
	store, err := o.store()
	if err != nil {
		return nil, err
	}

	if o.offline {
		snap, ok, err := store.Load(o.cfg.LeagueKey())
		if err != nil {
			return nil, fmt.Errorf("loading snapshot: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("no stored snapshot for league %s", o.cfg.LeagueKey())
		}
		return snap, nil
	}

	coord := coordinator.New(o.fetcher(), o.cfg.LeagueKey(),
		coordinator.WithLocation(o.cfg.Location),
		coordinator.WithClock(o.now),
		coordinator.WithStore(store),
		coordinator.WithLogger(o.log),
	)
	seeded, err := coord.Seed()
	if err != nil {
		o.log.Warn("Ignoring unreadable stored snapshot", logger.Fields{"error": err.Error()})
	}

	if err := coord.Refresh(ctx); err != nil {
		if !seeded {
			return nil, err
		}
		o.log.Warn("Refresh failed, using stored snapshot", logger.Fields{
			"league_id":  o.cfg.LeagueKey(),
			"fetched_at": coord.Snapshot().FetchedAt.Format(time.RFC3339),
			"error":      err.Error(),
		})
	}
	return coord.Snapshot(), nil
}

// requireTeam returns the configured team or an error naming the flag.
func (o *options) requireTeam() (string, error) {
	if o.cfg.TeamName == "" {
		return "", errors.New("a team is required: use --team or DIELIGA_TEAM_NAME")
	}
	return o.cfg.TeamName, nil
}

// Execute runs the CLI
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return exitCode(cmd.Execute(), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitError
}
