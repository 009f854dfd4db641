package notifier

import (
	"context"

	"github.com/pfrederiksen/dieliga/internal/league"
	"github.com/pfrederiksen/dieliga/internal/logger"
)

// LogNotifier records notifications as structured log entries.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses the package default.
func NewLogNotifier(l *logger.Logger) *LogNotifier {
	return &LogNotifier{log: l}
}

func (n *LogNotifier) out() *logger.Logger {
	if n.log != nil {
		return n.log
	}
	return logger.Default()
}

func (n *LogNotifier) NotifyMatchDay(_ context.Context, team string, games []league.Game) error {
	if len(games) == 0 {
		return nil
	}
	numbers := make([]string, 0, len(games))
	for _, g := range games {
		numbers = append(numbers, g.Number)
	}
	n.out().Info("Match day", logger.Fields{
		"team":         team,
		"games":        len(games),
		"game_numbers": numbers,
		"first_start":  games[0].EffectiveTime(),
	})
	return nil
}

func (n *LogNotifier) NotifyChanges(_ context.Context, changes []*league.GameChange) error {
	for _, c := range changes {
		n.out().Info("Schedule change", logger.Fields{
			"game_number": c.GameNumber,
			"change_type": c.ChangeType,
			"old_value":   c.OldValue,
			"new_value":   c.NewValue,
			"team_a":      c.Game.TeamAName,
			"team_b":      c.Game.TeamBName,
		})
	}
	return nil
}
