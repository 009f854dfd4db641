package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pfrederiksen/dieliga/internal/calendar"
	"github.com/pfrederiksen/dieliga/internal/filter"
	"github.com/pfrederiksen/dieliga/internal/league"
	"github.com/pfrederiksen/dieliga/internal/logger"
	"github.com/pfrederiksen/dieliga/internal/scraper"
	"github.com/spf13/cobra"
)

// defaultCalendarDays is the window of `calendar` without --to.
const defaultCalendarDays = 30

func newCheckCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate that the league can be fetched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := o.fetcher()
			url := f.URL(scraper.KindScoreboard)
			o.log.Debug("Checking connectivity", logger.Fields{"url": url})

			sb, err := f.FetchScoreboard(cmd.Context())
			if err != nil {
				return &exitError{code: ExitError, err: errors.Wrapf(err, "cannot connect to league %s", o.cfg.LeagueKey())}
			}

			return WriteOutput(cmd.OutOrStdout(), &CheckResult{
				LeagueID: o.cfg.LeagueKey(),
				URL:      url,
				League:   sb.League,
				Teams:    len(sb.Teams),
			}, o.outputFormat(), o.verbose)
		},
	}
}

func newStandingsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "standings",
		Short: "Show the league table and the team's position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := o.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			sb := snap.Scoreboard
			result := &StandingsResult{
				League:     sb.League,
				Group:      sb.Group,
				Region:     sb.Region,
				LastChange: sb.LastChange,
				Teams:      sb.Teams,
				Team:       o.cfg.TeamName,
			}
			if result.Team != "" {
				result.Position, _ = league.PositionOf(&sb, result.Team)
			}

			return WriteOutput(cmd.OutOrStdout(), result, o.outputFormat(), o.verbose)
		},
	}
}

func newScheduleCmd(o *options) *cobra.Command {
	var sortOrder, dateRange string
	f := filter.NewFilter()

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "List the games and completion of the league or team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			order := SortOrder(strings.ToLower(sortOrder))
			if !validSortOrder(order) {
				return fmt.Errorf("invalid sort order: %s (must be 'date', 'number' or 'team')", sortOrder)
			}

			snap, err := o.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			s := snap.Schedule
			result := &ScheduleResult{
				Group:           s.Group,
				Region:          s.Region,
				LeagueTotal:     s.TotalGames,
				LeagueCompleted: s.CompletedGames,
			}
			if team := o.cfg.TeamName; team != "" {
				view := league.ForTeam(&s, team, o.now(), o.cfg.Location)
				result.Team = team
				result.Games = view.Games
				result.TotalGames = view.TotalGames
				result.CompletedGames = view.CompletedGames
			} else {
				result.Games = append([]league.Game{}, s.Games...)
				result.TotalGames = s.TotalGames
				result.CompletedGames = s.CompletedGames
			}
			result.CompletionPercent = league.CompletionPercent(result.TotalGames, result.CompletedGames)

			if dateRange != "" {
				from, to, err := filter.ParseDateRange(dateRange, o.now(), o.cfg.Location)
				if err != nil {
					return fmt.Errorf("invalid --range: %w", err)
				}
				f.DateFrom, f.DateTo = from, to
			}
			if !f.IsEmpty() {
				result.Filter = f.String()
				result.Games = f.Apply(result.Games, o.now(), o.cfg.Location)
				o.log.Debug("Filtered schedule", logger.Fields{"filter": result.Filter, "games": len(result.Games)})
			}
			sortGames(result.Games, order, o.cfg.Location)

			return WriteOutput(cmd.OutOrStdout(), result, o.outputFormat(), o.verbose)
		},
	}

	cmd.Flags().StringVar(&sortOrder, "sort", string(SortByDate), "Sort order: date, number or team")
	cmd.Flags().StringVar(&dateRange, "range", "", "Only games in a date range ('2026-03-01..2026-03-15', 'Mar 1-15', 'March')")
	cmd.Flags().StringSliceVar(&f.Teams, "opponent", nil, "Only games with a team containing this name (repeatable)")
	cmd.Flags().StringSliceVar(&f.States, "state", nil, "Only games in this state (repeatable)")
	cmd.Flags().BoolVar(&f.WeekendsOnly, "weekends", false, "Only games on Saturday or Sunday")
	cmd.Flags().BoolVar(&f.PendingOnly, "pending", false, "Only games not completed yet")
	return cmd
}

func newTodayCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Report whether the team plays today (exit code 2 on a match day)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			team, err := o.requireTeam()
			if err != nil {
				return err
			}
			snap, err := o.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			today := o.now().In(o.cfg.Location)
			matches := league.MatchesOn(&snap.Schedule, team, today)
			result := &TodayResult{
				Date:       today.Format(league.DayLayout),
				Team:       team,
				MatchToday: len(matches) > 0,
				Matches:    matches,
			}
			if err := WriteOutput(cmd.OutOrStdout(), result, o.outputFormat(), o.verbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			if result.MatchToday {
				return &exitError{code: ExitMatchToday}
			}
			return nil
		},
	}
}

func newCalendarCmd(o *options) *cobra.Command {
	var from, to string
	var ics bool

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "List upcoming matches or export them as iCalendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc := o.cfg.Location
			now := o.now().In(loc)

			start, err := parseDayFlag(from, midnight(now), loc)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			end, err := parseDayFlag(to, start.AddDate(0, 0, defaultCalendarDays), loc)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}
			if end.Before(start) {
				return fmt.Errorf("--to %s is before --from %s", end.Format(league.DayLayout), start.Format(league.DayLayout))
			}

			snap, err := o.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			team := o.cfg.TeamName
			location := snap.Scoreboard.Region
			if ics {
				events := calendar.Build(&snap.Schedule, team, location, loc)
				_, err := fmt.Fprint(cmd.OutOrStdout(), calendar.GenerateICS(o.cfg.LeagueKey(), events, o.now()))
				return err
			}

			// --to names a whole day
			events := calendar.EventsInRange(&snap.Schedule, team, location, start, end.AddDate(0, 0, 1).Add(-time.Nanosecond), loc)
			result := &CalendarResult{
				From:   start.Format(league.DayLayout),
				To:     end.Format(league.DayLayout),
				Team:   team,
				Events: make([]calendarEntry, 0, len(events)),
			}
			for _, ev := range events {
				result.Events = append(result.Events, calendarEntry{
					GameNumber:  ev.GameNumber,
					Summary:     ev.Summary,
					Description: ev.Description,
					Location:    ev.Location,
					Start:       ev.Start.Format(time.RFC3339),
					End:         ev.End.Format(time.RFC3339),
				})
			}

			return WriteOutput(cmd.OutOrStdout(), result, o.outputFormat(), o.verbose)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&to, "to", "", fmt.Sprintf("Last day (YYYY-MM-DD, default --from + %d days)", defaultCalendarDays))
	cmd.Flags().BoolVar(&ics, "ics", false, "Write every match as an iCalendar document")
	return cmd
}

func parseDayFlag(v string, def time.Time, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	return time.ParseInLocation(league.DayLayout, v, loc)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
