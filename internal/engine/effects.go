package engine

import "github.com/tatianab/veritas-chamber/internal/models"

// ApplyEffects appends each effect's value to the matching session list.
// Effects only ever append; unknown kinds are skipped.
func ApplyEffects(effects []models.Effect, s *models.Session) {
	for _, e := range effects {
		switch e.Kind {
		case models.AddJournal:
			s.Journal = append(s.Journal, e.Value)
		case models.AddInventory:
			s.Inventory = append(s.Inventory, e.Value)
		}
	}
}
