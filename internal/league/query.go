package league

import (
	"math"
	"strings"
	"time"
)

// PositionOf returns the 1-based standings position of the first team whose
// name matches team case-insensitively.
func PositionOf(sb *Scoreboard, team string) (int, bool) {
	if sb == nil {
		return 0, false
	}
	for i, t := range sb.Teams {
		if strings.EqualFold(t.Name, team) {
			return i + 1, true
		}
	}
	return 0, false
}

// FindTeam returns the table row of the first team matching team case-insensitively.
func FindTeam(sb *Scoreboard, team string) (Team, bool) {
	pos, ok := PositionOf(sb, team)
	if !ok {
		return Team{}, false
	}
	return sb.Teams[pos-1], true
}

// GamesForTeam returns every game team plays on either side, in schedule order.
func GamesForTeam(s *Schedule, team string) []Game {
	games := make([]Game, 0)
	if s == nil {
		return games
	}
	for _, g := range s.Games {
		if g.Involves(team) {
			games = append(games, g)
		}
	}
	return games
}

// ForTeam narrows the schedule to team and recomputes the totals over the
// narrowed games, evaluating completion against now.
func ForTeam(s *Schedule, team string, now time.Time, loc *time.Location) TeamSchedule {
	games := GamesForTeam(s, team)
	view := TeamSchedule{
		Team:       team,
		Games:      games,
		TotalGames: len(games),
	}
	for _, g := range games {
		if g.Completed(now, loc) {
			view.CompletedGames++
		}
	}
	return view
}

// HasMatchToday reports whether team has a game whose effective date string
// equals today formatted as YYYY-MM-DD.
func HasMatchToday(s *Schedule, team string, today time.Time) bool {
	return len(MatchesOn(s, team, today)) > 0
}

// MatchesOn returns the team's games whose effective date string equals day.
func MatchesOn(s *Schedule, team string, day time.Time) []Game {
	want := day.Format(DayLayout)
	matches := make([]Game, 0)
	for _, g := range GamesForTeam(s, team) {
		if g.EffectiveDate() == want {
			matches = append(matches, g)
		}
	}
	return matches
}

// CompletionPercent returns completed/total as a percentage rounded to one
// decimal, or 0 when there are no games.
func CompletionPercent(total, completed int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}
