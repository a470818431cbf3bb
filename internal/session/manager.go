// Package session hosts many concurrent sessions on top of one engine,
// keyed by conversation id and persisted through a storage.Store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tatianab/veritas-chamber/internal/engine"
	"github.com/tatianab/veritas-chamber/internal/models"
	"github.com/tatianab/veritas-chamber/internal/storage"
)

// DefaultConversation is used when a caller gives no conversation id.
const DefaultConversation = "default"

// Reply is what every Manager operation returns to a host.
type Reply struct {
	Text     string
	Resolved bool
	ChoiceID string
	// Session is a copy taken after the operation.
	Session *models.Session
}

// Manager serializes operations per conversation. Different conversations
// proceed in parallel.
type Manager struct {
	engine *engine.Engine
	store  storage.Store
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*convLock
}

// convLock is dropped from Manager.locks once no caller holds or waits on it.
type convLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(e *engine.Engine, store storage.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		engine: e,
		store:  store,
		logger: logger,
		locks:  make(map[string]*convLock),
	}
}

// Engine returns the engine sessions are played on.
func (m *Manager) Engine() *engine.Engine {
	return m.engine
}

func normalize(conv string) string {
	conv = strings.TrimSpace(conv)
	if conv == "" {
		return DefaultConversation
	}
	return conv
}

func (m *Manager) lock(conv string) func() {
	m.mu.Lock()
	l, ok := m.locks[conv]
	if !ok {
		l = &convLock{}
		m.locks[conv] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, conv)
		}
		m.mu.Unlock()
	}
}

// with runs fn on the stored session for conv under its lock and saves the
// result when fn reports a change. A conversation with no stored session is
// started first.
func (m *Manager) with(ctx context.Context, conv string, fn func(s *models.Session) (Reply, bool)) (Reply, error) {
	conv = normalize(conv)
	if err := storage.ValidateKey(conv); err != nil {
		return Reply{}, err
	}
	unlock := m.lock(conv)
	defer unlock()

	s, err := m.store.Load(ctx, conv)
	dirty := false
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s = &models.Session{}
		m.engine.Start(s, "")
		dirty = true
		m.logger.Info("session auto-started", "conversation", conv, "session", s.ID)
	case err != nil:
		return Reply{}, fmt.Errorf("load conversation %s: %w", conv, err)
	}

	reply, changed := fn(s)
	if dirty || changed {
		if err := m.store.Save(ctx, conv, s); err != nil {
			return Reply{}, fmt.Errorf("save conversation %s: %w", conv, err)
		}
	}
	reply.Session = s.Clone()
	return reply, nil
}

// Start begins a fresh session for conv, replacing any existing one.
// A blank name keeps the previous player's name.
func (m *Manager) Start(ctx context.Context, conv, playerName string) (Reply, error) {
	conv = normalize(conv)
	if err := storage.ValidateKey(conv); err != nil {
		return Reply{}, err
	}
	unlock := m.lock(conv)
	defer unlock()

	s, err := m.store.Load(ctx, conv)
	if errors.Is(err, storage.ErrNotFound) {
		s = &models.Session{}
	} else if err != nil {
		return Reply{}, fmt.Errorf("load conversation %s: %w", conv, err)
	}

	text := m.engine.Start(s, playerName)
	if err := m.store.Save(ctx, conv, s); err != nil {
		return Reply{}, fmt.Errorf("save conversation %s: %w", conv, err)
	}
	m.logger.Info("session started", "conversation", conv, "session", s.ID, "player", s.PlayerName)
	return Reply{Text: text, Session: s.Clone()}, nil
}

// CurrentScene renders the scene conv is in.
func (m *Manager) CurrentScene(ctx context.Context, conv string) (Reply, error) {
	return m.with(ctx, conv, func(s *models.Session) (Reply, bool) {
		return Reply{Text: m.engine.CurrentScene(s)}, false
	})
}

// Submit applies a player's action to conv.
func (m *Manager) Submit(ctx context.Context, conv, input string) (Reply, error) {
	return m.with(ctx, conv, func(s *models.Session) (Reply, bool) {
		out := m.engine.ApplyAction(s, input)
		if out.Resolved {
			m.logger.Info("transition",
				"conversation", normalize(conv), "session", s.ID,
				"from", out.From, "choice", out.ChoiceID, "to", out.To)
		} else {
			m.logger.Debug("unresolved action", "conversation", normalize(conv), "scene", out.From, "input", input)
		}
		return Reply{Text: out.Text, Resolved: out.Resolved, ChoiceID: out.ChoiceID}, out.Resolved
	})
}

// Journal renders conv's journal view.
func (m *Manager) Journal(ctx context.Context, conv string) (Reply, error) {
	return m.with(ctx, conv, func(s *models.Session) (Reply, bool) {
		return Reply{Text: m.engine.Journal(s)}, false
	})
}

// Restart resets conv to the initial scene, keeping the player's name.
func (m *Manager) Restart(ctx context.Context, conv string) (Reply, error) {
	return m.with(ctx, conv, func(s *models.Session) (Reply, bool) {
		old := s.ID
		text := m.engine.Restart(s)
		m.logger.Info("session restarted", "conversation", normalize(conv), "previous", old, "session", s.ID)
		return Reply{Text: text}, true
	})
}

// Snapshot returns a copy of conv's stored session without starting one.
func (m *Manager) Snapshot(ctx context.Context, conv string) (*models.Session, error) {
	conv = normalize(conv)
	if err := storage.ValidateKey(conv); err != nil {
		return nil, err
	}
	unlock := m.lock(conv)
	defer unlock()
	return m.store.Load(ctx, conv)
}

// Sessions lists the stored conversation ids.
func (m *Manager) Sessions(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}
