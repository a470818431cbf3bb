package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/tatianab/veritas-chamber/internal/models"
)

// FileStore keeps each session as <root>/<key>/session.yaml.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Dir returns the directory a key's session is saved in.
func (f *FileStore) Dir(key string) string {
	return filepath.Join(f.root, key)
}

func (f *FileStore) Load(_ context.Context, key string) (*models.Session, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	s, err := models.LoadSession(f.Dir(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", key, err)
	}
	return s, nil
}

func (f *FileStore) Save(_ context.Context, key string, s *models.Session) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := s.Save(f.Dir(key)); err != nil {
		return fmt.Errorf("save session %s: %w", key, err)
	}
	return nil
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return os.RemoveAll(f.Dir(key))
}

func (f *FileStore) List(context.Context) ([]string, error) {
	keys, err := models.ListSessions(f.root)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	slices.Sort(keys)
	return keys, nil
}

func (f *FileStore) Close() error { return nil }
