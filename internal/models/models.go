package models

import (
	"slices"
	"time"

	"github.com/orsinium-labs/enum"
)

// EffectKind names what an effect appends to a session.
type EffectKind enum.Member[string]

var (
	AddJournal   = EffectKind{"add_journal"}
	AddInventory = EffectKind{"add_inventory"}
	EffectKinds  = enum.New(AddJournal, AddInventory)
)

// Effect is a single append instruction carried by a choice.
type Effect struct {
	Kind  EffectKind
	Value string
}

// Choice is a labeled edge from its owning scene to a destination scene.
type Choice struct {
	ID          string
	Description string
	Destination string
	Effects     []Effect
}

// Scene is a node of the world graph. Choices keep their declared order.
type Scene struct {
	ID          string
	Title       string
	Description string
	Choices     []Choice
}

// Choice returns the choice with the given id.
func (s *Scene) Choice(id string) (Choice, bool) {
	for _, c := range s.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// Transition records one resolved choice taken during a session.
type Transition struct {
	From   string    `yaml:"from" json:"from"`
	Action string    `yaml:"action" json:"action"`
	To     string    `yaml:"to" json:"to"`
	At     time.Time `yaml:"at" json:"at"`
}

// Session is the mutable progress of one player through a world.
type Session struct {
	ID         string       `yaml:"id" json:"id"`
	PlayerName string       `yaml:"player_name,omitempty" json:"player_name,omitempty"`
	SceneID    string       `yaml:"scene_id" json:"scene_id"`
	StartedAt  time.Time    `yaml:"started_at" json:"started_at"`
	History    []Transition `yaml:"history" json:"history"`
	Journal    []string     `yaml:"journal" json:"journal"`
	Inventory  []string     `yaml:"inventory" json:"inventory"`
	ChoiceLog  []string     `yaml:"choice_log" json:"choice_log"`
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.History = slices.Clone(s.History)
	c.Journal = slices.Clone(s.Journal)
	c.Inventory = slices.Clone(s.Inventory)
	c.ChoiceLog = slices.Clone(s.ChoiceLog)
	return &c
}
