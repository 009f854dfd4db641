package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/pfrederiksen/dieliga/internal/league"
	"github.com/pfrederiksen/dieliga/internal/logger"
)

// MatchDuration is the assumed length of every match.
const MatchDuration = 2 * time.Hour

// Event is one match rendered as a calendar entry.
type Event struct {
	GameNumber  string    `json:"game_number"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// Build converts the games of s into events, in schedule order. When team is
// non-empty only that team's games are used. location is copied into every
// event (the scoreboard region). Games without a usable start are skipped.
func Build(s *league.Schedule, team, location string, loc *time.Location) []Event {
	if s == nil {
		return nil
	}

	games := s.Games
	if team != "" {
		games = league.GamesForTeam(s, team)
	}

	events := make([]Event, 0, len(games))
	for _, g := range games {
		date := g.EffectiveDate()
		if date == league.Unknown {
			continue
		}

		start, err := league.ParseStart(date, g.EffectiveTime(), loc)
		if err != nil {
			logger.Debug("Could not parse date/time for game", logger.Fields{
				"game_number": g.Number,
				"date":        date,
				"time":        g.EffectiveTime(),
			})
			continue
		}

		events = append(events, Event{
			GameNumber:  g.Number,
			Summary:     fmt.Sprintf("%s vs %s", g.TeamAName, g.TeamBName),
			Description: fmt.Sprintf("Match number: %s. Status: %s", g.Number, g.State),
			Location:    location,
			Start:       start,
			End:         start.Add(MatchDuration),
		})
	}

	return events
}

// EventsInRange returns the events whose start lies within [start, end].
func EventsInRange(s *league.Schedule, team, location string, start, end time.Time, loc *time.Location) []Event {
	var out []Event
	for _, ev := range Build(s, team, location, loc) {
		if ev.Start.Before(start) || ev.Start.After(end) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Next returns the earliest-starting event that has not ended by now.
// Events with identical starts keep their input order.
func Next(events []Event, now time.Time) (Event, bool) {
	upcoming := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.End.After(now) {
			upcoming = append(upcoming, ev)
		}
	}
	if len(upcoming) == 0 {
		return Event{}, false
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Start.Before(upcoming[j].Start)
	})
	return upcoming[0], true
}
