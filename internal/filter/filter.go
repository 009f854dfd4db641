// Package filter narrows a schedule down to the games a user cares about.
//
// Filters combine criteria with AND:
//   - Date range (from/to dates, against the effective date)
//   - Teams (substring matching on either side, case-insensitive)
//   - Game states (exact, case-insensitive)
//   - Weekends only (Saturday/Sunday)
//   - Pending only (not yet completed)
//
// Example usage:
//
//	// Upcoming weekend games against "Sparta"
//	f := filter.NewFilter()
//	f.WeekendsOnly = true
//	f.PendingOnly = true
//	f.Teams = []string{"Sparta"}
//
//	games := f.Apply(schedule.Games, time.Now(), loc)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/dieliga/internal/league"
)

// Filter represents game filtering criteria
type Filter struct {
	// Date range filtering
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Team name filtering (case-insensitive substring match on either side)
	Teams []string `json:"teams,omitempty"`

	// Game state filtering, e.g. "Completed"
	States []string `json:"states,omitempty"`

	// Weekend-only filtering (Saturday/Sunday)
	WeekendsOnly bool `json:"weekends_only,omitempty"`

	// Only games that are not completed yet
	PendingOnly bool `json:"pending_only,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all games until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Teams:  []string{},
		States: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
// Returns true if the filter would match all games.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Teams) == 0 &&
		len(f.States) == 0 &&
		!f.WeekendsOnly &&
		!f.PendingOnly
}

// Matches checks if a game matches all active filter criteria.
// An empty filter matches all games.
//
// Matching logic:
//   - Date range: effective date must be within DateFrom and DateTo (inclusive);
//     games without a usable date fail any date criterion
//   - Teams: either team name must contain at least one entry
//   - States: game state must equal at least one entry
//   - WeekendsOnly: effective date must be a Saturday or Sunday
//   - PendingOnly: the game must not be completed at now
func (f *Filter) Matches(g league.Game, now time.Time, loc *time.Location) bool {
	// Empty filter matches all games
	if f.IsEmpty() {
		return true
	}

	day, dated := league.ParseDay(g.EffectiveDate(), loc)

	// Check date range
	if f.DateFrom != nil && (!dated || day.Before(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && (!dated || day.After(*f.DateTo)) {
		return false
	}

	// Check weekends only
	if f.WeekendsOnly {
		if !dated {
			return false
		}
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			return false
		}
	}

	if f.PendingOnly && g.Completed(now, loc) {
		return false
	}

	// Check team name (case-insensitive substring match)
	if len(f.Teams) > 0 {
		matched := false
		a, b := strings.ToLower(g.TeamAName), strings.ToLower(g.TeamBName)
		for _, team := range f.Teams {
			t := strings.ToLower(team)
			if strings.Contains(a, t) || strings.Contains(b, t) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	// Check state filtering
	if len(f.States) > 0 {
		matched := false
		for _, state := range f.States {
			if strings.EqualFold(g.State, state) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply returns the games matching f, in input order.
// If the filter is empty, returns the original slice unchanged.
func (f *Filter) Apply(games []league.Game, now time.Time, loc *time.Location) []league.Game {
	if f.IsEmpty() {
		return games
	}

	filtered := make([]league.Game, 0, len(games))
	for _, g := range games {
		if f.Matches(g, now, loc) {
			filtered = append(filtered, g)
		}
	}

	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Returns "No active filters" if the filter is empty.
// Format: "From: Mar 1, 2026 | To: Mar 15, 2026 | Teams: Sparta | Weekends only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}

	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}

	if len(f.Teams) > 0 {
		parts = append(parts, fmt.Sprintf("Teams: %s", strings.Join(f.Teams, ", ")))
	}

	if len(f.States) > 0 {
		parts = append(parts, fmt.Sprintf("States: %s", strings.Join(f.States, ", ")))
	}

	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}

	if f.PendingOnly {
		parts = append(parts, "Pending only")
	}

	return strings.Join(parts, " | ")
}
