package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/pfrederiksen/dieliga/internal/league"
	"github.com/sourcegraph/conc/pool"
)

// Notifier defines the interface for announcing league events
type Notifier interface {
	// NotifyMatchDay announces the games team plays today.
	NotifyMatchDay(ctx context.Context, team string, games []league.Game) error
	// NotifyChanges announces new, rescheduled or re-stated games.
	NotifyChanges(ctx context.Context, changes []*league.GameChange) error
}

// Multi fans a notification out to several notifiers concurrently. Every
// notifier runs even when another fails; the first error is returned.
type Multi []Notifier

func (m Multi) NotifyMatchDay(ctx context.Context, team string, games []league.Game) error {
	return m.each(ctx, func(ctx context.Context, n Notifier) error {
		return n.NotifyMatchDay(ctx, team, games)
	})
}

func (m Multi) NotifyChanges(ctx context.Context, changes []*league.GameChange) error {
	return m.each(ctx, func(ctx context.Context, n Notifier) error {
		return n.NotifyChanges(ctx, changes)
	})
}

func (m Multi) each(ctx context.Context, fn func(context.Context, Notifier) error) error {
	p := pool.New().WithContext(ctx).WithFirstError()
	for _, n := range m {
		p.Go(func(ctx context.Context) error { return fn(ctx, n) })
	}
	return p.Wait()
}

// formatMatchDay formats the match-day message for team
func formatMatchDay(team string, games []league.Game) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏐 Match day for %s!\n", team)
	for _, g := range games {
		fmt.Fprintf(&b, "  %s  %s vs %s (#%s)\n", g.EffectiveTime(), g.TeamAName, g.TeamBName, g.Number)
	}
	return b.String()
}

// formatChange formats one schedule change as a single line
func formatChange(c *league.GameChange) string {
	match := fmt.Sprintf("#%s %s vs %s", c.GameNumber, c.Game.TeamAName, c.Game.TeamBName)
	switch c.ChangeType {
	case league.ChangeNew:
		return fmt.Sprintf("🆕 New game %s on %s", match, c.NewValue)
	case league.ChangeDate:
		return fmt.Sprintf("📅 Game %s moved from %s to %s", match, c.OldValue, c.NewValue)
	case league.ChangeTime:
		return fmt.Sprintf("🕒 Game %s now starts at %s (was %s)", match, c.NewValue, c.OldValue)
	case league.ChangeState:
		return fmt.Sprintf("ℹ️ Game %s status: %s → %s", match, c.OldValue, c.NewValue)
	default:
		return fmt.Sprintf("Game %s changed", match)
	}
}
