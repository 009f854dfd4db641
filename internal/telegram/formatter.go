package telegram

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/pfrederiksen/dieliga/internal/league"
)

// FormatMatchDay formats the match-day announcement for team
func FormatMatchDay(team string, games []league.Game) string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("🏐 <b>Match day for %s!</b>\n", html.EscapeString(team)))
	for _, g := range games {
		msg.WriteString(fmt.Sprintf("\n⏰ %s  %s vs %s", g.EffectiveTime(),
			html.EscapeString(g.TeamAName), html.EscapeString(g.TeamBName)))
		msg.WriteString(fmt.Sprintf("\n<i>Game %s</i>", html.EscapeString(g.Number)))
	}

	return msg.String()
}

// FormatChanges formats schedule changes as one message, one block per change
func FormatChanges(changes []*league.GameChange) string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("📋 <b>Schedule update</b> (%d)\n", len(changes)))
	for _, c := range changes {
		g := c.Game
		msg.WriteString(fmt.Sprintf("\n<b>%s vs %s</b> (game %s)\n",
			html.EscapeString(g.TeamAName), html.EscapeString(g.TeamBName), html.EscapeString(g.Number)))

		switch c.ChangeType {
		case league.ChangeNew:
			msg.WriteString(fmt.Sprintf("🆕 New game on %s at %s\n", g.EffectiveDate(), g.EffectiveTime()))
		case league.ChangeDate:
			msg.WriteString(fmt.Sprintf("📅 Moved from %s to %s\n", html.EscapeString(c.OldValue), html.EscapeString(c.NewValue)))
		case league.ChangeTime:
			msg.WriteString(fmt.Sprintf("⏰ Time changed from %s to %s\n", html.EscapeString(c.OldValue), html.EscapeString(c.NewValue)))
		case league.ChangeState:
			msg.WriteString(fmt.Sprintf("ℹ️ State: %s → %s\n", html.EscapeString(c.OldValue), html.EscapeString(c.NewValue)))
		}
	}

	return msg.String()
}

// Notifier delivers league notifications to a Telegram chat
type Notifier struct {
	client *Client
}

// NewNotifier wraps client
func NewNotifier(client *Client) *Notifier {
	return &Notifier{client: client}
}

// NotifyMatchDay sends the match-day announcement
func (n *Notifier) NotifyMatchDay(ctx context.Context, team string, games []league.Game) error {
	if len(games) == 0 {
		return nil
	}
	return n.client.SendMessage(ctx, FormatMatchDay(team, games))
}

// NotifyChanges sends all changes as a single message
func (n *Notifier) NotifyChanges(ctx context.Context, changes []*league.GameChange) error {
	if len(changes) == 0 {
		return nil
	}
	return n.client.SendMessage(ctx, FormatChanges(changes))
}
