package models

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SessionFile is the file name a saved session is written to inside its directory.
const SessionFile = "session.yaml"

// Save writes the session as YAML into dir, creating it if needed.
func (s *Session) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	// write-then-rename
	tmp := filepath.Join(dir, SessionFile+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(dir, SessionFile))
}

// LoadSession reads a session previously written by Save.
func LoadSession(dir string) (*Session, error) {
	data, err := os.ReadFile(filepath.Join(dir, SessionFile))
	if err != nil {
		return nil, err
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSessions returns the names of the directories under root that hold a saved session.
func ListSessions(root string) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	sessions := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, entry.Name(), SessionFile)); err == nil {
			sessions = append(sessions, entry.Name())
		}
	}
	return sessions, nil
}
