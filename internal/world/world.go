// Package world holds the read-only scene graph a session is played in.
//
// A World is loaded once at startup, validated, and then shared by every
// session without locking. Loading fails on any dangling destination or a
// missing initial scene, so a session can never be moved into a scene the
// world does not define.
package world

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"github.com/tatianab/veritas-chamber/internal/models"
)

//go:embed worlds/veritas.yaml
var veritasYAML []byte

// ErrInvalidWorld wraps every configuration error found while validating a world.
var ErrInvalidWorld = errors.New("invalid world")

// World is an immutable mapping from scene id to scene.
type World struct {
	title    string
	initial  string
	order    []string
	scenes   map[string]*models.Scene
	warnings []string
}

// New builds a world from scenes in declared order and validates it.
func New(title, initial string, scenes []models.Scene) (*World, error) {
	w := &World{
		title:   title,
		initial: initial,
		scenes:  make(map[string]*models.Scene, len(scenes)),
	}
	var errs []error
	for i := range scenes {
		sc := scenes[i]
		if _, dup := w.scenes[sc.ID]; dup {
			errs = append(errs, fmt.Errorf("scene %q defined twice", sc.ID))
			continue
		}
		sc.Choices = slices.Clone(sc.Choices)
		w.scenes[sc.ID] = &sc
		w.order = append(w.order, sc.ID)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorld, errors.Join(errs...))
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Default returns the embedded Veritas Chamber world.
func Default() (*World, error) {
	return Parse(veritasYAML)
}

// Title is the display name of the world.
func (w *World) Title() string {
	return w.title
}

// Initial is the id of the scene every session starts in.
func (w *World) Initial() string {
	return w.initial
}

// Scene looks up a scene by id.
func (w *World) Scene(id string) (*models.Scene, bool) {
	sc, ok := w.scenes[id]
	return sc, ok
}

// SceneIDs returns every scene id in declared order.
func (w *World) SceneIDs() []string {
	return slices.Clone(w.order)
}

// Warnings lists non-fatal problems found while parsing, such as unknown effect kinds.
func (w *World) Warnings() []string {
	return slices.Clone(w.warnings)
}

// Validate checks the load-time rules: a designated initial scene
// exists and every choice destination resolves to a scene.
func (w *World) Validate() error {
	var errs []error
	if w.initial == "" {
		errs = append(errs, errors.New("no initial scene designated"))
	} else if _, ok := w.scenes[w.initial]; !ok {
		errs = append(errs, fmt.Errorf("initial scene %q does not exist", w.initial))
	}
	for _, id := range w.order {
		sc := w.scenes[id]
		if sc.ID == "" {
			errs = append(errs, errors.New("scene with empty id"))
		}
		seen := make(map[string]bool, len(sc.Choices))
		for _, c := range sc.Choices {
			if c.ID == "" {
				errs = append(errs, fmt.Errorf("scene %q has a choice with empty id", sc.ID))
				continue
			}
			if seen[c.ID] {
				errs = append(errs, fmt.Errorf("scene %q choice %q defined twice", sc.ID, c.ID))
			}
			seen[c.ID] = true
			if _, ok := w.scenes[c.Destination]; !ok {
				errs = append(errs, fmt.Errorf("scene %q choice %q: destination %q does not exist", sc.ID, c.ID, c.Destination))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidWorld, errors.Join(errs...))
	}
	return nil
}

// Reachable returns the ids of all scenes reachable from the initial scene,
// in breadth-first order following declared choice order.
func (w *World) Reachable() []string {
	if _, ok := w.scenes[w.initial]; !ok {
		return nil
	}
	visited := map[string]bool{w.initial: true}
	queue := []string{w.initial}
	var out []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		out = append(out, id)
		for _, c := range w.scenes[id].Choices {
			if visited[c.Destination] {
				continue
			}
			if _, ok := w.scenes[c.Destination]; !ok {
				continue
			}
			visited[c.Destination] = true
			queue = append(queue, c.Destination)
		}
	}
	return out
}
