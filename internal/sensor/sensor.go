// Package sensor turns one snapshot into the presentation states a host shows:
// standings position, schedule progress, match-today flag and next match.
package sensor

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/dieliga/internal/calendar"
	"github.com/pfrederiksen/dieliga/internal/league"
)

// State is one sensor reading.
type State struct {
	Name       string         `json:"name"`
	UniqueID   string         `json:"unique_id"`
	Value      any            `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// Input is everything a sensor reads. Snapshot is never modified.
type Input struct {
	LeagueID          string
	Team              string
	Snapshot          *league.Snapshot
	LastUpdateSuccess bool
	Now               time.Time
	Location          *time.Location
}

func (in Input) snapshot() *league.Snapshot {
	if in.Snapshot == nil {
		return league.EmptySnapshot()
	}
	return in.Snapshot
}

func (in Input) label() string {
	if in.Team != "" {
		return in.Team
	}
	return in.LeagueID
}

func (in Input) idSuffix() string {
	if in.Team == "" {
		return in.LeagueID
	}
	return in.LeagueID + "_" + strings.ToLower(strings.ReplaceAll(in.Team, " ", "_"))
}

// All returns every sensor that applies to in. The match-today sensor only
// exists when a team is configured.
func All(in Input) []State {
	states := []State{Scoreboard(in), Schedule(in)}
	if st, ok := MatchToday(in); ok {
		states = append(states, st)
	}
	return append(states, Calendar(in))
}

// Scoreboard reports the team's standings position. Without a team the value
// is the league name; a team missing from the table reads "Unknown".
func Scoreboard(in Input) State {
	sb := in.snapshot().Scoreboard

	var value any = sb.League
	var position any
	if in.Team != "" {
		value = league.Unknown
		if pos, ok := league.PositionOf(&sb, in.Team); ok {
			value = pos
			position = pos
		}
	}

	return State{
		Name:     "dieLiga Scoreboard " + in.label(),
		UniqueID: "dieliga_scoreboard_" + in.idSuffix(),
		Value:    value,
		Attributes: map[string]any{
			"league":              sb.League,
			"group":               sb.Group,
			"region":              sb.Region,
			"last_change":         sb.LastChange,
			"teams":               sb.Teams,
			"position":            position,
			"last_update_success": in.LastUpdateSuccess,
		},
	}
}

// Schedule reports schedule progress in percent. With a team the games and
// counts cover only that team; the league-wide counts are always included.
func Schedule(in Input) State {
	s := in.snapshot().Schedule

	games, total, completed := s.Games, s.TotalGames, s.CompletedGames
	if in.Team != "" {
		view := league.ForTeam(&s, in.Team, in.now(), in.Location)
		games, total, completed = view.Games, view.TotalGames, view.CompletedGames
	}

	return State{
		Name:     "dieLiga Schedule " + in.label(),
		UniqueID: "dieliga_schedule_" + in.idSuffix(),
		Value:    league.CompletionPercent(total, completed),
		Attributes: map[string]any{
			"group":                  s.Group,
			"region":                 s.Region,
			"games":                  games,
			"total_games":            total,
			"completed_games":        completed,
			"league_total_games":     s.TotalGames,
			"league_completed_games": s.CompletedGames,
			"last_update_success":    in.LastUpdateSuccess,
		},
	}
}

// MatchToday reports "on" when the team plays today. ok is false when no team
// is configured.
func MatchToday(in Input) (State, bool) {
	if in.Team == "" {
		return State{}, false
	}

	today := in.now()
	if in.Location != nil {
		today = today.In(in.Location)
	}
	s := in.snapshot().Schedule
	games := league.MatchesOn(&s, in.Team, today)

	value := "off"
	if len(games) > 0 {
		value = "on"
	}

	return State{
		Name:     fmt.Sprintf("dieLiga Match Today %s", in.Team),
		UniqueID: "dieliga_match_today_" + in.idSuffix(),
		Value:    value,
		Attributes: map[string]any{
			"date":                today.Format(league.DayLayout),
			"games":               games,
			"last_update_success": in.LastUpdateSuccess,
		},
	}, true
}

// Calendar reports the next match that has not ended yet.
func Calendar(in Input) State {
	snap := in.snapshot()
	events := calendar.Build(&snap.Schedule, in.Team, snap.Scoreboard.Region, in.Location)

	st := State{
		Name:     "dieLiga Calendar " + in.label(),
		UniqueID: "dieliga_calendar_" + in.LeagueID,
		Value:    "",
		Attributes: map[string]any{
			"events":              len(events),
			"last_update_success": in.LastUpdateSuccess,
		},
	}

	next, ok := calendar.Next(events, in.now())
	if !ok {
		return st
	}
	st.Value = next.Summary
	st.Attributes["start"] = next.Start.Format(time.RFC3339)
	st.Attributes["end"] = next.End.Format(time.RFC3339)
	st.Attributes["location"] = next.Location
	st.Attributes["description"] = next.Description
	return st
}

func (in Input) now() time.Time {
	if in.Now.IsZero() {
		return time.Now()
	}
	return in.Now
}
