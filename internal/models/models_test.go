package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testSession() *Session {
	return &Session{
		ID:         "a1b2c3d4",
		PlayerName: "Ada",
		SceneID:    "desk_key_taken",
		StartedAt:  time.Date(2025, 12, 1, 9, 30, 0, 0, time.UTC),
		History: []Transition{
			{From: "intro", Action: "examine_desk", To: "desk_clue", At: time.Date(2025, 12, 1, 9, 31, 0, 0, time.UTC)},
			{From: "desk_clue", Action: "take_key", To: "desk_key_taken", At: time.Date(2025, 12, 1, 9, 32, 0, 0, time.UTC)},
		},
		Journal:   []string{"Found a brass key."},
		Inventory: []string{"brass_key"},
		ChoiceLog: []string{"examine_desk", "take_key"},
	}
}

func TestSessionSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conv-1")
	session := testSession()

	if err := session.Save(dir); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, SessionFile+".tmp")); !os.IsNotExist(err) {
		t.Errorf("Expected temp file to be renamed away, stat err = %v", err)
	}

	loaded, err := LoadSession(dir)
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	if loaded.SceneID != session.SceneID {
		t.Errorf("Expected scene %s, got %s", session.SceneID, loaded.SceneID)
	}
	if !loaded.StartedAt.Equal(session.StartedAt) {
		t.Errorf("Expected start %v, got %v", session.StartedAt, loaded.StartedAt)
	}
	if len(loaded.History) != 2 || loaded.History[1].To != "desk_key_taken" {
		t.Errorf("Unexpected history after load: %+v", loaded.History)
	}
	if len(loaded.Inventory) != 1 || loaded.Inventory[0] != "brass_key" {
		t.Errorf("Unexpected inventory after load: %v", loaded.Inventory)
	}
}

func TestListSessions(t *testing.T) {
	root := t.TempDir()

	if err := testSession().Save(filepath.Join(root, "alpha")); err != nil {
		t.Fatalf("save alpha: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := ListSessions(root)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0] != "alpha" {
		t.Errorf("Expected [alpha], got %v", got)
	}

	missing, err := ListSessions(filepath.Join(root, "nope"))
	if err != nil {
		t.Fatalf("list missing root: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("Expected no sessions for missing root, got %v", missing)
	}
}

func TestSessionCloneIsIndependent(t *testing.T) {
	session := testSession()
	clone := session.Clone()

	clone.Inventory = append(clone.Inventory, "lantern")
	clone.Journal[0] = "changed"
	clone.History[0].To = "elsewhere"

	if len(session.Inventory) != 1 {
		t.Errorf("Clone shares inventory backing array: %v", session.Inventory)
	}
	if session.Journal[0] != "Found a brass key." {
		t.Errorf("Clone shares journal: %v", session.Journal)
	}
	if session.History[0].To != "desk_clue" {
		t.Errorf("Clone shares history: %v", session.History)
	}
}

func TestEffectKindsParse(t *testing.T) {
	if k := EffectKinds.Parse("add_inventory"); k == nil || *k != AddInventory {
		t.Errorf("Expected add_inventory to parse, got %v", k)
	}
	if k := EffectKinds.Parse("remove_inventory"); k != nil {
		t.Errorf("Expected unknown kind to be rejected, got %v", *k)
	}
}
