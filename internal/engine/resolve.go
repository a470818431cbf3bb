package engine

import (
	"strings"
	"unicode"

	"github.com/tatianab/veritas-chamber/internal/models"
)

// leadWords is how many leading description words the phrase tier considers.
const leadWords = 4

// Resolve maps free-form player text to at most one choice of scene.
//
// Matching is case-insensitive and tiered; the first tier that matches
// wins, and within a tier choices are tried in declared order:
//
//  1. the trimmed input equals a choice id;
//  2. the id read as a phrase ("take_key" -> "take key") occurs in the
//     input, or one of the first four description words does;
//  3. any description word occurs in the input.
//
// Resolve does not score candidates. An earlier choice that plausibly
// matches beats a later one that matches better.
func Resolve(input string, scene *models.Scene) (string, bool) {
	if scene == nil {
		return "", false
	}
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" {
		return "", false
	}

	for _, c := range scene.Choices {
		if text == strings.ToLower(c.ID) {
			return c.ID, true
		}
	}

	for _, c := range scene.Choices {
		if phrase := idPhrase(c.ID); phrase != "" && strings.Contains(text, phrase) {
			return c.ID, true
		}
		words := descriptionWords(c.Description)
		if len(words) > leadWords {
			words = words[:leadWords]
		}
		if containsAny(text, words) {
			return c.ID, true
		}
	}

	for _, c := range scene.Choices {
		if containsAny(text, descriptionWords(c.Description)) {
			return c.ID, true
		}
	}

	return "", false
}

func idPhrase(id string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(id), "_", " "))
}

// descriptionWords lower-cases a description and splits it into words with
// surrounding punctuation removed.
func descriptionWords(desc string) []string {
	fields := strings.Fields(strings.ToLower(desc))
	words := fields[:0]
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
