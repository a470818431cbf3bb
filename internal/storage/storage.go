// Package storage persists sessions between process runs.
//
// A session is stored under a key chosen by the host: the conversation id
// for the MCP server, the session id for the terminal game. Every backend
// hands out copies, so callers never share a *models.Session with the store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tatianab/veritas-chamber/internal/config"
	"github.com/tatianab/veritas-chamber/internal/models"
)

// ErrNotFound is returned by Load when no session is stored under the key.
var ErrNotFound = errors.New("session not found")

// ErrInvalidKey is returned for keys that cannot be stored safely.
var ErrInvalidKey = errors.New("invalid session key")

// Store saves and loads sessions by key.
type Store interface {
	Load(ctx context.Context, key string) (*models.Session, error)
	Save(ctx context.Context, key string, s *models.Session) error
	Delete(ctx context.Context, key string) error
	// List returns the stored keys in ascending order.
	List(ctx context.Context) ([]string, error)
	Close() error
}

// ValidateKey reports whether key is usable by every backend. Keys double as
// directory names for the file store, so only letters, digits, '-', '_' and
// '.' are allowed.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || len(key) > 128 {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if strings.IndexFunc(key, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case r == '-' || r == '_' || r == '.':
			return false
		}
		return true
	}) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Open returns the store selected by cfg.Store.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreFile:
		return NewFileStore(cfg.SaveDir), nil
	case config.StoreSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case config.StoreRedis:
		return OpenRedis(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
