package scraper

import (
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/dieliga/internal/league"
	"github.com/pfrederiksen/dieliga/internal/logger"
)

// ParseScoreboard parses the league table document.
// Only a document that is not well-formed XML returns an error (*ParseError).
func ParseScoreboard(raw string) (*league.Scoreboard, error) {
	doc, err := parseDocument(raw)
	if err != nil {
		return nil, &ParseError{Kind: KindScoreboard, Err: err}
	}
	root := doc.Children().First()

	sb := &league.Scoreboard{Teams: make([]league.Team, 0)}
	extract(root, sb, scoreboardFields)

	// Layouts differ in where the table sits, so search all descendants.
	root.Find("table > team").Each(func(_ int, sel *goquery.Selection) {
		var team league.Team
		extract(sel, &team, teamFields)
		sb.Teams = append(sb.Teams, team)
	})

	return sb, nil
}

// ParseSchedule parses the match plan, counting completed games against the
// current time in the local time zone.
func ParseSchedule(raw string) (*league.Schedule, error) {
	return ParseScheduleAt(raw, time.Now(), time.Local)
}

// ParseScheduleAt parses the match plan, counting a game as completed when its
// effective date in loc is strictly before now.
func ParseScheduleAt(raw string, now time.Time, loc *time.Location) (*league.Schedule, error) {
	doc, err := parseDocument(raw)
	if err != nil {
		return nil, &ParseError{Kind: KindSchedule, Err: err}
	}
	root := doc.Children().First()

	s := &league.Schedule{Games: make([]league.Game, 0)}
	extract(root, s, scheduleFields)

	root.Find("day_of_play").Each(func(_ int, day *goquery.Selection) {
		day.ChildrenFiltered("game").Each(func(_ int, sel *goquery.Selection) {
			var game league.Game
			extract(sel, &game, gameFields)

			s.Games = append(s.Games, game)
			s.TotalGames++

			date := game.EffectiveDate()
			if league.IsSentinel(date) {
				return
			}
			if _, ok := league.ParseDay(date, loc); !ok {
				logger.Debug("Invalid date format", logger.Fields{"game_number": game.Number, "date": date})
				return
			}
			if game.Completed(now, loc) {
				s.CompletedGames++
			}
		})
	})

	return s, nil
}
