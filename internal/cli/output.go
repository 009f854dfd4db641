package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pfrederiksen/dieliga/internal/league"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// textWriter is implemented by results that have a human-readable form.
type textWriter interface {
	writeText(w io.Writer, verbose bool) error
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result textWriter, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return result.writeText(w, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as indented JSON
func writeJSON(w io.Writer, result any) error {
	data, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// CheckResult reports a successful connectivity check.
type CheckResult struct {
	LeagueID string `json:"league_id"`
	URL      string `json:"url"`
	League   string `json:"league"`
	Teams    int    `json:"teams"`
}

func (r *CheckResult) writeText(w io.Writer, verbose bool) error {
	fmt.Fprintf(w, "Connected to league %s (%s), %d teams\n", r.LeagueID, r.League, r.Teams)
	if verbose {
		fmt.Fprintf(w, "  URL: %s\n", r.URL)
	}
	return nil
}

// StandingsResult is the league table, optionally with one team's position.
type StandingsResult struct {
	League     string        `json:"league"`
	Group      string        `json:"group"`
	Region     string        `json:"region"`
	LastChange string        `json:"last_change"`
	Teams      []league.Team `json:"teams"`
	Team       string        `json:"team,omitempty"`
	Position   int           `json:"position,omitempty"`
}

func (r *StandingsResult) writeText(w io.Writer, verbose bool) error {
	fmt.Fprintf(w, "%s (%s, %s)\n", r.League, r.Group, r.Region)
	if verbose {
		fmt.Fprintf(w, "Last change: %s\n", r.LastChange)
	}
	if len(r.Teams) == 0 {
		fmt.Fprintln(w, "No teams found.")
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%3s  %-30s %5s %7s %7s %11s\n", "#", "Team", "Games", "Won", "Points", "Sets")
	for i, t := range r.Teams {
		marker := " "
		if r.Team != "" && i+1 == r.Position {
			marker = "*"
		}
		fmt.Fprintf(w, "%2d%s  %-30s %5d %7d %7s %11s\n",
			i+1, marker, t.Name, t.Games, t.GamesWon,
			fmt.Sprintf("%d:%d", t.PointsPositive, t.PointsNegative),
			fmt.Sprintf("%d:%d", t.SetsPositive, t.SetsNegative))
		if verbose {
			fmt.Fprintf(w, "       Balls: %d:%d\n", t.BallsPositive, t.BallsNegative)
		}
	}

	if r.Team != "" {
		fmt.Fprintln(w)
		if r.Position > 0 {
			fmt.Fprintf(w, "%s is in position %d of %d\n", r.Team, r.Position, len(r.Teams))
		} else {
			fmt.Fprintf(w, "%s is not in the table\n", r.Team)
		}
	}
	return nil
}

// ScheduleResult lists games. TotalGames and CompletedGames count the team's
// (or the league's) games before any filter, the league totals always cover
// the whole schedule.
type ScheduleResult struct {
	Group             string        `json:"group"`
	Region            string        `json:"region"`
	Team              string        `json:"team,omitempty"`
	Filter            string        `json:"filter,omitempty"`
	Games             []league.Game `json:"games"`
	TotalGames        int           `json:"total_games"`
	CompletedGames    int           `json:"completed_games"`
	CompletionPercent float64       `json:"completion_percent"`
	LeagueTotal       int           `json:"league_total_games"`
	LeagueCompleted   int           `json:"league_completed_games"`
}

func (r *ScheduleResult) writeText(w io.Writer, verbose bool) error {
	if r.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n\n", r.Filter)
	}
	if len(r.Games) == 0 {
		fmt.Fprintln(w, "No games found.")
		return nil
	}

	for _, g := range r.Games {
		when := g.EffectiveDate() + " " + g.EffectiveTime()
		if !league.IsSentinel(g.NewDate) {
			when += " (moved from " + g.Date + ")"
		}
		fmt.Fprintf(w, "#%-5s %s  %s vs %s", g.Number, when, g.TeamAName, g.TeamBName)
		if g.TeamAPoints != league.Zero || g.TeamBPoints != league.Zero {
			fmt.Fprintf(w, "  %s:%s", g.TeamAPoints, g.TeamBPoints)
		}
		fmt.Fprintln(w)
		if verbose {
			fmt.Fprintf(w, "       State: %s\n", g.State)
			fmt.Fprintf(w, "       Sets: %s:%s  Balls: %s:%s\n", g.TeamASets, g.TeamBSets, g.TeamABalls, g.TeamBBalls)
		}
	}

	scope := "games"
	if r.Team != "" {
		scope = "games for " + r.Team
	}
	if r.Filter != "" {
		fmt.Fprintf(w, "\nShowing %d of %d %s\n", len(r.Games), r.TotalGames, scope)
	}
	fmt.Fprintf(w, "\nTotal: %d %s, %d completed (%.1f%%)\n", r.TotalGames, scope, r.CompletedGames, r.CompletionPercent)
	if r.Team != "" {
		fmt.Fprintf(w, "League: %d games, %d completed\n", r.LeagueTotal, r.LeagueCompleted)
	}
	return nil
}

// TodayResult reports the team's matches on Date.
type TodayResult struct {
	Date       string        `json:"date"`
	Team       string        `json:"team"`
	MatchToday bool          `json:"match_today"`
	Matches    []league.Game `json:"matches"`
}

func (r *TodayResult) writeText(w io.Writer, _ bool) error {
	if !r.MatchToday {
		fmt.Fprintf(w, "No match for %s on %s.\n", r.Team, r.Date)
		return nil
	}
	fmt.Fprintf(w, "Match day for %s on %s:\n", r.Team, r.Date)
	for _, g := range r.Matches {
		fmt.Fprintf(w, "  %s  %s vs %s (game %s)\n", g.EffectiveTime(), g.TeamAName, g.TeamBName, g.Number)
	}
	return nil
}

// CalendarResult lists calendar events in a window.
type CalendarResult struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Team   string          `json:"team,omitempty"`
	Events []calendarEntry `json:"events"`
}

type calendarEntry struct {
	GameNumber  string `json:"game_number"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

func (r *CalendarResult) writeText(w io.Writer, verbose bool) error {
	if len(r.Events) == 0 {
		fmt.Fprintf(w, "No matches between %s and %s.\n", r.From, r.To)
		return nil
	}
	for _, ev := range r.Events {
		fmt.Fprintf(w, "%s  %s\n", strings.Replace(ev.Start[:16], "T", " ", 1), ev.Summary)
		if verbose {
			fmt.Fprintf(w, "       %s\n", ev.Description)
			if ev.Location != "" {
				fmt.Fprintf(w, "       Location: %s\n", ev.Location)
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d matches\n", len(r.Events))
	return nil
}
