package league

import "time"

// Change types reported by DiffSchedules.
const (
	ChangeNew   = "new"
	ChangeDate  = "date"
	ChangeTime  = "time"
	ChangeState = "state"
)

// GameChange represents a change detected in a game between two schedules
type GameChange struct {
	GameNumber string    `json:"game_number"`
	ChangeType string    `json:"change_type"`
	OldValue   string    `json:"old_value"`
	NewValue   string    `json:"new_value"`
	Game       Game      `json:"game"`
	DetectedAt time.Time `json:"detected_at"`
}

// DiffSchedules compares two schedules game by game, keyed by game number,
// and returns changes in the order of next. A nil previous schedule yields no
// changes so the first refresh does not report every game as new.
// Games without a usable number are skipped.
func DiffSchedules(previous, next *Schedule) []*GameChange {
	if previous == nil || next == nil {
		return nil
	}

	known := make(map[string]Game, len(previous.Games))
	for _, g := range previous.Games {
		if IsSentinel(g.Number) {
			continue
		}
		if _, dup := known[g.Number]; !dup {
			known[g.Number] = g
		}
	}

	var changes []*GameChange
	seen := make(map[string]bool, len(next.Games))
	for _, g := range next.Games {
		if IsSentinel(g.Number) || seen[g.Number] {
			continue
		}
		seen[g.Number] = true

		prev, existed := known[g.Number]
		changes = append(changes, DetectChanges(prev, g, existed)...)
	}

	return changes
}

// DetectChanges compares two versions of the same game.
func DetectChanges(previous, current Game, existed bool) []*GameChange {
	now := time.Now().UTC()

	if !existed {
		return []*GameChange{{
			GameNumber: current.Number,
			ChangeType: ChangeNew,
			NewValue:   current.EffectiveDate(),
			Game:       current,
			DetectedAt: now,
		}}
	}

	var changes []*GameChange

	// Reschedules show up as a new_date appearing or moving.
	if previous.EffectiveDate() != current.EffectiveDate() {
		changes = append(changes, &GameChange{
			GameNumber: current.Number,
			ChangeType: ChangeDate,
			OldValue:   previous.EffectiveDate(),
			NewValue:   current.EffectiveDate(),
			Game:       current,
			DetectedAt: now,
		})
	}

	if previous.EffectiveTime() != current.EffectiveTime() {
		changes = append(changes, &GameChange{
			GameNumber: current.Number,
			ChangeType: ChangeTime,
			OldValue:   previous.EffectiveTime(),
			NewValue:   current.EffectiveTime(),
			Game:       current,
			DetectedAt: now,
		})
	}

	if previous.State != current.State {
		changes = append(changes, &GameChange{
			GameNumber: current.Number,
			ChangeType: ChangeState,
			OldValue:   previous.State,
			NewValue:   current.State,
			Game:       current,
			DetectedAt: now,
		})
	}

	return changes
}

// FilterChanges keeps the changes of games team plays in. An empty team keeps all.
func FilterChanges(changes []*GameChange, team string) []*GameChange {
	if team == "" {
		return changes
	}
	out := make([]*GameChange, 0, len(changes))
	for _, c := range changes {
		if c.Game.Involves(team) {
			out = append(out, c)
		}
	}
	return out
}
