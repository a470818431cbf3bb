package engine

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/tatianab/veritas-chamber/internal/models"
)

// ClosingPrompt ends every scene, outcome, and journal the engine renders.
const ClosingPrompt = "What do you do?"

// recentTransitions is how many transitions the journal view lists.
const recentTransitions = 6

const fallbackScene = "The chamber blurs around you and nothing here is familiar. You can start over whenever you like."

// Speakable turns a choice id into the words a player can say: "examine_desk" -> "Examine Desk".
func Speakable(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// EnsurePrompt appends ClosingPrompt unless text already ends with it.
func EnsurePrompt(text string) string {
	text = strings.TrimRight(text, " \n")
	if strings.HasSuffix(text, ClosingPrompt) {
		return text
	}
	if text == "" {
		return ClosingPrompt
	}
	return text + "\n\n" + ClosingPrompt
}

// RenderScene renders a scene description followed by its choices and the closing prompt.
// A nil scene renders a short fallback.
func RenderScene(scene *models.Scene) string {
	if scene == nil {
		return EnsurePrompt(fallbackScene)
	}
	var b strings.Builder
	b.WriteString(scene.Description)
	if len(scene.Choices) > 0 {
		b.WriteString("\n\nYour options:")
		for _, c := range scene.Choices {
			fmt.Fprintf(&b, "\n- %s (say %q)", c.Description, Speakable(c.ID))
		}
	}
	return EnsurePrompt(b.String())
}

// RenderTransition confirms the chosen action.
func RenderTransition(choiceID string) string {
	return fmt.Sprintf("You chose: %s.", Speakable(choiceID))
}

func renderReprompt(scene *models.Scene) string {
	if scene == nil || len(scene.Choices) == 0 {
		return EnsurePrompt("I couldn't match that to anything you can do here.")
	}
	options := make([]string, len(scene.Choices))
	for i, c := range scene.Choices {
		options[i] = Speakable(c.ID)
	}
	return EnsurePrompt("I couldn't match that to a path here. You can say: " + strings.Join(options, ", ") + ".")
}

func renderJournal(s *models.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", s.ID)
	fmt.Fprintf(&b, "Started: %s\n", s.StartedAt.UTC().Format(time.RFC3339))
	if s.PlayerName != "" {
		fmt.Fprintf(&b, "Player: %s\n", s.PlayerName)
	}

	writeList(&b, "Journal", s.Journal)
	writeList(&b, "Inventory", s.Inventory)

	recent := s.History
	if len(recent) > recentTransitions {
		recent = recent[len(recent)-recentTransitions:]
	}
	if len(recent) == 0 {
		b.WriteString("Recent path: (none yet)\n")
	} else {
		b.WriteString("Recent path:\n")
		for _, tr := range recent {
			fmt.Fprintf(&b, "- %s -> %s (%s)\n", tr.From, tr.To, Speakable(tr.Action))
		}
	}
	return EnsurePrompt(b.String())
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "%s: (empty)\n", title)
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
