// Package player drives the engine without a human: scripted lines for
// tests and demos, or a Gemini model improvising what to say.
package player

import (
	"context"
	"errors"
	"strings"
)

// ErrNoMoreActions is returned by a player with nothing left to say.
var ErrNoMoreActions = errors.New("player has no more actions")

// View is what a player sees before choosing its next action.
type View struct {
	Turn      int
	Text      string
	SceneID   string
	Inventory []string
	Journal   []string
	// Resolved reports whether the previous action matched a choice.
	Resolved bool
}

// Player chooses what to say next.
type Player interface {
	NextAction(ctx context.Context, v View) (string, error)
}

// Scripted replays fixed lines in order.
type Scripted struct {
	lines []string
	next  int
}

func NewScripted(lines ...string) *Scripted {
	return &Scripted{lines: lines}
}

func (s *Scripted) NextAction(context.Context, View) (string, error) {
	if s.next >= len(s.lines) {
		return "", ErrNoMoreActions
	}
	line := s.lines[s.next]
	s.next++
	return line, nil
}

// cleanAction strips quoting and formatting a model tends to wrap its
// answer in, keeping only the first line.
func cleanAction(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.Trim(text, "`\"' *")
	text = strings.TrimPrefix(text, "> ")
	return strings.TrimSpace(text)
}
