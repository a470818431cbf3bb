// Package engine runs sessions through a world: it resolves player text to
// choices, applies effects, records transitions, and renders narration.
//
// The engine holds no per-player state. Every operation takes the session
// it acts on, and the caller owns that session exclusively for the call.
// Nothing here blocks on I/O.
package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tatianab/veritas-chamber/internal/models"
	"github.com/tatianab/veritas-chamber/internal/world"
)

// Engine plays sessions through a single read-only world.
type Engine struct {
	world *world.World
	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for start and transition timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides how session ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New returns an engine for w.
func New(w *world.World, opts ...Option) *Engine {
	e := &Engine{
		world: w,
		now:   time.Now,
		newID: newSessionID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newSessionID() string {
	return uuid.NewString()[:8]
}

// freshID returns an id different from old. A generator that keeps
// repeating itself falls back to random ids.
func (e *Engine) freshID(old string) string {
	for i := 0; i < 3; i++ {
		if id := e.newID(); id != old {
			return id
		}
	}
	id := newSessionID()
	for id == old {
		id = newSessionID()
	}
	return id
}

// World returns the world the engine plays.
func (e *Engine) World() *world.World {
	return e.world
}

// Outcome is the result of submitting an action.
type Outcome struct {
	Text     string
	Resolved bool
	ChoiceID string
	From     string
	To       string
}

// Start resets s to the initial scene with empty logs and a fresh id.
// A non-blank playerName replaces the stored name; otherwise the existing name is kept.
func (e *Engine) Start(s *models.Session, playerName string) string {
	name := strings.TrimSpace(playerName)
	if name == "" {
		name = s.PlayerName
	}
	*s = models.Session{
		ID:         e.freshID(s.ID),
		PlayerName: name,
		SceneID:    e.world.Initial(),
		StartedAt:  e.now().UTC(),
		History:    []models.Transition{},
		Journal:    []string{},
		Inventory:  []string{},
		ChoiceLog:  []string{},
	}
	return e.CurrentScene(s)
}

// Restart is Start keeping the player's name.
func (e *Engine) Restart(s *models.Session) string {
	return e.Start(s, "")
}

// CurrentScene renders the scene s is in. It never mutates s.
func (e *Engine) CurrentScene(s *models.Session) string {
	sc, _ := e.world.Scene(s.SceneID)
	return RenderScene(sc)
}

// ApplyAction resolves input against the current scene. When nothing
// matches, s is left untouched and the outcome re-prompts. Otherwise the
// choice's effects are applied, the transition is recorded, and s moves
// to the choice's destination.
func (e *Engine) ApplyAction(s *models.Session, input string) Outcome {
	sc, ok := e.world.Scene(s.SceneID)
	if !ok {
		return Outcome{Text: RenderScene(nil), From: s.SceneID, To: s.SceneID}
	}

	id, ok := Resolve(input, sc)
	if !ok {
		return Outcome{Text: renderReprompt(sc), From: sc.ID, To: sc.ID}
	}
	choice, _ := sc.Choice(id)

	ApplyEffects(choice.Effects, s)
	s.History = append(s.History, models.Transition{
		From:   sc.ID,
		Action: choice.ID,
		To:     choice.Destination,
		At:     e.now().UTC(),
	})
	s.ChoiceLog = append(s.ChoiceLog, choice.ID)
	s.SceneID = choice.Destination

	next, _ := e.world.Scene(s.SceneID)
	return Outcome{
		Text:     EnsurePrompt(RenderTransition(choice.ID) + "\n\n" + RenderScene(next)),
		Resolved: true,
		ChoiceID: choice.ID,
		From:     sc.ID,
		To:       choice.Destination,
	}
}

// Journal renders the session id, start time, player, journal, inventory,
// and the most recent transitions oldest first.
func (e *Engine) Journal(s *models.Session) string {
	return renderJournal(s)
}
