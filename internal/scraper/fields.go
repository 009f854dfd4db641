package scraper

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/dieliga/internal/league"
	"github.com/pfrederiksen/dieliga/internal/logger"
)

// field maps one value of an XML record onto T. path names a direct child
// element; attr, when set, selects an attribute of that child instead of its
// text. def applies when the element or attribute is absent.
type field[T any] struct {
	path string
	attr string
	def  string
	set  func(*T, string)
}

func extract[T any](sel *goquery.Selection, dst *T, fields []field[T]) {
	for _, f := range fields {
		f.set(dst, lookup(sel, f.path, f.attr, f.def))
	}
}

func lookup(sel *goquery.Selection, path, attr, def string) string {
	el := sel.ChildrenFiltered(path).First()
	if el.Length() == 0 {
		return def
	}
	if attr == "" {
		return strings.TrimSpace(el.Text())
	}
	v, ok := el.Attr(attr)
	if !ok {
		return def
	}
	return strings.TrimSpace(v)
}

var scoreboardFields = []field[league.Scoreboard]{
	{path: "group", def: league.Unknown, set: func(s *league.Scoreboard, v string) { s.Group = v }},
	{path: "region", def: league.Unknown, set: func(s *league.Scoreboard, v string) { s.Region = v }},
	{path: "last_change", def: league.Unknown, set: func(s *league.Scoreboard, v string) { s.LastChange = v }},
	{path: "league", def: league.Unknown, set: func(s *league.Scoreboard, v string) { s.League = v }},
}

var teamFields = []field[league.Team]{
	{path: "name", def: league.Unknown, set: func(t *league.Team, v string) { t.Name = v }},
	{path: "points", attr: "positive", def: league.Zero, set: teamInt(func(t *league.Team) *int { return &t.PointsPositive })},
	{path: "points", attr: "negative", def: league.Zero, set: teamInt(func(t *league.Team) *int { return &t.PointsNegative })},
	{path: "sets", attr: "positive", def: league.Zero, set: teamInt(func(t *league.Team) *int { return &t.SetsPositive })},
	{path: "sets", attr: "negative", def: league.Zero, set: teamInt(func(t *league.Team) *int { return &t.SetsNegative })},
	{path: "balls", attr: "positive", def: league.Zero, set: teamInt(func(t *league.Team) *int { return &t.BallsPositive })},
	{path: "balls", attr: "negative", def: league.Zero, set: teamInt(func(t *league.Team) *int { return &t.BallsNegative })},
	{path: "games", def: league.Zero, set: teamInt(func(t *league.Team) *int { return &t.Games })},
	{path: "games_won", def: league.Zero, set: teamInt(func(t *league.Team) *int { return &t.GamesWon })},
}

var scheduleFields = []field[league.Schedule]{
	{path: "group", def: league.Unknown, set: func(s *league.Schedule, v string) { s.Group = v }},
	{path: "region", def: league.Unknown, set: func(s *league.Schedule, v string) { s.Region = v }},
}

// Each team_a/team_b attribute defaults on its own, whether the element or
// only the attribute is missing.
var gameFields = []field[league.Game]{
	{path: "gamenr", def: league.Unknown, set: func(g *league.Game, v string) { g.Number = v }},
	{path: "date", def: league.Unknown, set: func(g *league.Game, v string) { g.Date = v }},
	{path: "new_date", def: league.Unknown, set: func(g *league.Game, v string) { g.NewDate = v }},
	{path: "time", def: league.Unknown, set: func(g *league.Game, v string) { g.Time = v }},
	{path: "team_a", attr: "name", def: league.Unknown, set: func(g *league.Game, v string) { g.TeamAName = v }},
	{path: "team_b", attr: "name", def: league.Unknown, set: func(g *league.Game, v string) { g.TeamBName = v }},
	{path: "team_a", attr: "points", def: league.Zero, set: func(g *league.Game, v string) { g.TeamAPoints = v }},
	{path: "team_b", attr: "points", def: league.Zero, set: func(g *league.Game, v string) { g.TeamBPoints = v }},
	{path: "team_a", attr: "sets", def: league.Zero, set: func(g *league.Game, v string) { g.TeamASets = v }},
	{path: "team_b", attr: "sets", def: league.Zero, set: func(g *league.Game, v string) { g.TeamBSets = v }},
	{path: "team_a", attr: "balls", def: league.Zero, set: func(g *league.Game, v string) { g.TeamABalls = v }},
	{path: "team_b", attr: "balls", def: league.Zero, set: func(g *league.Game, v string) { g.TeamBBalls = v }},
	{path: "state", def: league.Unknown, set: func(g *league.Game, v string) { g.State = v }},
}

func teamInt(ptr func(*league.Team) *int) func(*league.Team, string) {
	return func(t *league.Team, v string) {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.Debug("Invalid numeric value, using 0", logger.Fields{"team": t.Name, "value": v})
			n = 0
		}
		*ptr(t) = n
	}
}
