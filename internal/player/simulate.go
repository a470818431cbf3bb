package player

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tatianab/veritas-chamber/internal/session"
)

// Summary reports how a simulated run went.
type Summary struct {
	Turns      int
	Resolved   int
	FinalScene string
	Reached    bool
}

// Simulate starts a session for conv and lets p play up to maxTurns
// actions, writing a transcript to w. It stops early once the session
// enters goal (when non-empty) or p runs out of actions.
func Simulate(ctx context.Context, mgr *session.Manager, conv string, p Player, maxTurns int, goal string, w io.Writer) (Summary, error) {
	r, err := mgr.Start(ctx, conv, "")
	if err != nil {
		return Summary{}, err
	}
	fmt.Fprintf(w, "--- Session %s ---\n%s\n\n", r.Session.ID, r.Text)

	sum := Summary{FinalScene: r.Session.SceneID}
	resolved := true
	for turn := 1; turn <= maxTurns; turn++ {
		action, err := p.NextAction(ctx, View{
			Turn:      turn,
			Text:      r.Text,
			SceneID:   r.Session.SceneID,
			Inventory: r.Session.Inventory,
			Journal:   r.Session.Journal,
			Resolved:  resolved,
		})
		if errors.Is(err, ErrNoMoreActions) {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("turn %d: %w", turn, err)
		}

		r, err = mgr.Submit(ctx, conv, action)
		if err != nil {
			return sum, fmt.Errorf("turn %d: %w", turn, err)
		}
		sum.Turns = turn
		sum.FinalScene = r.Session.SceneID
		resolved = r.Resolved
		if resolved {
			sum.Resolved++
		}

		fmt.Fprintf(w, "--- Turn %d ---\nPlayer: %s\n", turn, action)
		if resolved {
			fmt.Fprintf(w, "Choice: %s -> %s\n", r.ChoiceID, r.Session.SceneID)
		} else {
			fmt.Fprintln(w, "Choice: (none)")
		}
		fmt.Fprintf(w, "%s\n\n", r.Text)

		if goal != "" && r.Session.SceneID == goal {
			sum.Reached = true
			break
		}
	}

	j, err := mgr.Journal(ctx, conv)
	if err != nil {
		return sum, err
	}
	fmt.Fprintf(w, "--- Journal ---\n%s\n", j.Text)
	return sum, nil
}
