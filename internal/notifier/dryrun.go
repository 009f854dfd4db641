package notifier

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pfrederiksen/dieliga/internal/league"
)

// WriterNotifier prints notifications instead of delivering them anywhere
type WriterNotifier struct {
	w io.Writer
}

// NewWriterNotifier creates a notifier printing to w, or stdout when w is nil
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &WriterNotifier{w: w}
}

// NotifyMatchDay prints the match-day message
func (n *WriterNotifier) NotifyMatchDay(_ context.Context, team string, games []league.Game) error {
	if len(games) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(n.w, formatMatchDay(team, games))
	return err
}

// NotifyChanges prints one line per change
func (n *WriterNotifier) NotifyChanges(_ context.Context, changes []*league.GameChange) error {
	for i, c := range changes {
		if _, err := fmt.Fprintf(n.w, "--- Change %d/%d ---\n%s\n\n", i+1, len(changes), formatChange(c)); err != nil {
			return err
		}
	}
	return nil
}
