package cli

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/dieliga/internal/league"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate   SortOrder = "date"
	SortByNumber SortOrder = "number"
	SortByTeam   SortOrder = "team"
)

func validSortOrder(s SortOrder) bool {
	return s == SortByDate || s == SortByNumber || s == SortByTeam
}

// sortGames sorts games in place. Ties keep schedule order.
func sortGames(games []league.Game, order SortOrder, loc *time.Location) {
	switch order {
	case SortByDate:
		sort.SliceStable(games, func(i, j int) bool {
			return compareByDate(games[i], games[j], loc)
		})
	case SortByNumber:
		sort.SliceStable(games, func(i, j int) bool {
			return compareByNumber(games[i], games[j])
		})
	case SortByTeam:
		sort.SliceStable(games, func(i, j int) bool {
			a, b := strings.ToLower(games[i].TeamAName), strings.ToLower(games[j].TeamAName)
			if a != b {
				return a < b
			}
			// Same home team, sort by date
			return compareByDate(games[i], games[j], loc)
		})
	}
}

// compareByDate compares two games by their effective start.
// Returns true if game i should come before game j
func compareByDate(i, j league.Game, loc *time.Location) bool {
	startI, errI := league.ParseStart(i.EffectiveDate(), i.EffectiveTime(), loc)
	startJ, errJ := league.ParseStart(j.EffectiveDate(), j.EffectiveTime(), loc)

	// If both dates are valid, compare them
	if errI == nil && errJ == nil {
		return startI.Before(startJ)
	}

	// If only one date is valid, put the valid one first
	if errI == nil {
		return true
	}
	if errJ == nil {
		return false
	}

	return compareByNumber(i, j)
}

// compareByNumber orders numeric game numbers numerically and puts
// non-numeric ones last.
func compareByNumber(i, j league.Game) bool {
	ni, errI := strconv.Atoi(i.Number)
	nj, errJ := strconv.Atoi(j.Number)
	switch {
	case errI == nil && errJ == nil:
		return ni < nj
	case errI == nil:
		return true
	case errJ == nil:
		return false
	default:
		return i.Number < j.Number
	}
}
