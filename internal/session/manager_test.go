package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/veritas-chamber/internal/engine"
	"github.com/tatianab/veritas-chamber/internal/storage"
	"github.com/tatianab/veritas-chamber/internal/world"
)

func newTestManager(t *testing.T) (*Manager, storage.Store) {
	t.Helper()
	w, err := world.Default()
	require.NoError(t, err)
	st := storage.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(engine.New(w), st, logger), st
}

func TestManagerStartAndSubmit(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)

	r, err := m.Start(ctx, "conv1", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "intro", r.Session.SceneID)
	assert.Equal(t, "Ada", r.Session.PlayerName)
	assert.True(t, strings.HasSuffix(r.Text, engine.ClosingPrompt))

	r, err = m.Submit(ctx, "conv1", "examine the desk")
	require.NoError(t, err)
	assert.True(t, r.Resolved)
	assert.Equal(t, "examine_desk", r.ChoiceID)
	assert.Equal(t, "desk_clue", r.Session.SceneID)

	stored, err := st.Load(ctx, "conv1")
	require.NoError(t, err)
	assert.Equal(t, "desk_clue", stored.SceneID)
	assert.Len(t, stored.History, 1)
}

func TestManagerAutoStarts(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)

	r, err := m.CurrentScene(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "intro", r.Session.SceneID)

	keys, err := st.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultConversation}, keys)

	r, err = m.Submit(ctx, "fresh", "study mural")
	require.NoError(t, err)
	assert.Equal(t, "mural", r.Session.SceneID)
}

func TestManagerUnresolvedDoesNotChangeSession(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	before, err := m.Start(ctx, "c", "")
	require.NoError(t, err)

	r, err := m.Submit(ctx, "c", "dance a jig")
	require.NoError(t, err)
	assert.False(t, r.Resolved)
	assert.Equal(t, before.Session.SceneID, r.Session.SceneID)
	assert.Empty(t, r.Session.History)
	assert.Contains(t, r.Text, "I couldn't match that")
}

func TestManagerRestartKeepsName(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	first, err := m.Start(ctx, "c", "Grace")
	require.NoError(t, err)
	_, err = m.Submit(ctx, "c", "examine_desk")
	require.NoError(t, err)

	r, err := m.Restart(ctx, "c")
	require.NoError(t, err)
	assert.NotEqual(t, first.Session.ID, r.Session.ID)
	assert.Equal(t, "Grace", r.Session.PlayerName)
	assert.Equal(t, "intro", r.Session.SceneID)
	assert.Empty(t, r.Session.History)
}

func TestManagerJournal(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	_, err := m.Start(ctx, "c", "Ada")
	require.NoError(t, err)
	for _, in := range []string{"examine_desk", "take key"} {
		_, err := m.Submit(ctx, "c", in)
		require.NoError(t, err)
	}
	r, err := m.Journal(ctx, "c")
	require.NoError(t, err)
	assert.Contains(t, r.Text, "brass_key")
	assert.Contains(t, r.Text, "desk_clue -> desk_key_taken")
}

func TestManagerSnapshot(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	_, err := m.Snapshot(ctx, "nobody")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = m.Start(ctx, "c", "")
	require.NoError(t, err)
	snap, err := m.Snapshot(ctx, "c")
	require.NoError(t, err)
	snap.SceneID = "escape"

	r, err := m.CurrentScene(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "intro", r.Session.SceneID)
}

func TestManagerRejectsBadConversation(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Submit(context.Background(), "../etc", "look")
	assert.ErrorIs(t, err, storage.ErrInvalidKey)
}

func TestManagerConcurrentConversations(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	const convs, rounds = 8, 10
	var wg sync.WaitGroup
	for i := range convs {
		conv := fmt.Sprintf("conv%d", i)
		_, err := m.Start(ctx, conv, "")
		require.NoError(t, err)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				m.Submit(ctx, conv, "study_mural")
				m.Submit(ctx, conv, "return_center")
			}
		}()
	}
	// copy_inscription loops on the mural, so concurrent writers to one
	// conversation each add exactly one transition.
	_, err := m.Submit(ctx, "shared", "study_mural")
	require.NoError(t, err)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				m.Submit(ctx, "shared", "copy_inscription")
			}
		}()
	}
	wg.Wait()

	for i := range convs {
		snap, err := m.Snapshot(ctx, fmt.Sprintf("conv%d", i))
		require.NoError(t, err)
		assert.Len(t, snap.History, 2*rounds)
		assert.Equal(t, "intro", snap.SceneID)
	}
	shared, err := m.Snapshot(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, shared.History, 1+4*rounds)
	assert.Len(t, shared.Journal, 4*rounds)
	assert.Equal(t, 0, lockCount(m))
}

func lockCount(m *Manager) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

func TestManagerDropsIdleLocks(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	for i := range 50 {
		conv := fmt.Sprintf("visitor%d", i)
		_, err := m.Submit(ctx, conv, "examine_desk")
		require.NoError(t, err)
		_, err = m.Journal(ctx, conv)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, lockCount(m))

	unlock := m.lock("held")
	assert.Equal(t, 1, lockCount(m))
	unlock()
	assert.Equal(t, 0, lockCount(m))
}
