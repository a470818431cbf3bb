package tools

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/veritas-chamber/internal/engine"
	"github.com/tatianab/veritas-chamber/internal/session"
	"github.com/tatianab/veritas-chamber/internal/storage"
	"github.com/tatianab/veritas-chamber/internal/world"
)

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	w, err := world.Default()
	require.NoError(t, err)
	m := session.NewManager(engine.New(w), storage.NewMemoryStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- Serve(ctx, NewServer(m, "test"), serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(context.Background(), clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		cs.Close()
		cancel()
		<-serveErr
	})
	return cs
}

func call(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) (string, map[string]any) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.False(t, res.IsError, "tool %s returned an error: %+v", name, res.Content)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	structured, _ := res.StructuredContent.(map[string]any)
	return text.Text, structured
}

func TestListTools(t *testing.T) {
	cs := connect(t)
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"start_adventure", "get_current_scene", "submit_action", "show_journal", "restart_adventure",
	}, names)
}

func TestAdventureOverMCP(t *testing.T) {
	cs := connect(t)

	text, out := call(t, cs, "start_adventure", map[string]any{"conversation_id": "call-1", "player_name": "Ada"})
	assert.True(t, strings.HasSuffix(text, engine.ClosingPrompt))
	assert.Equal(t, "intro", out["scene_id"])
	assert.Equal(t, "Ada", out["player_name"])

	text, out = call(t, cs, "submit_action", map[string]any{"conversation_id": "call-1", "action": "examine the desk"})
	assert.Contains(t, text, "You chose: Examine Desk.")
	assert.Equal(t, true, out["resolved"])
	assert.Equal(t, "examine_desk", out["choice_id"])
	assert.Equal(t, "desk_clue", out["scene_id"])

	_, out = call(t, cs, "submit_action", map[string]any{"conversation_id": "call-1", "action": "hum loudly"})
	assert.Equal(t, false, out["resolved"])
	assert.Equal(t, "desk_clue", out["scene_id"])

	call(t, cs, "submit_action", map[string]any{"conversation_id": "call-1", "action": "take key"})
	text, out = call(t, cs, "show_journal", map[string]any{"conversation_id": "call-1"})
	assert.Contains(t, text, "brass_key")
	assert.Equal(t, []any{"brass_key"}, out["inventory"])

	_, out = call(t, cs, "get_current_scene", map[string]any{"conversation_id": "call-1"})
	assert.Equal(t, "desk_key_taken", out["scene_id"])

	_, out = call(t, cs, "restart_adventure", map[string]any{"conversation_id": "call-1"})
	assert.Equal(t, "intro", out["scene_id"])
	assert.Equal(t, "Ada", out["player_name"])
}

func TestConversationsAreIsolated(t *testing.T) {
	cs := connect(t)

	call(t, cs, "submit_action", map[string]any{"conversation_id": "a", "action": "study mural"})
	_, out := call(t, cs, "get_current_scene", map[string]any{"conversation_id": "b"})
	assert.Equal(t, "intro", out["scene_id"])

	// No id means the default conversation.
	call(t, cs, "submit_action", map[string]any{"action": "try door"})
	_, out = call(t, cs, "get_current_scene", map[string]any{"conversation_id": session.DefaultConversation})
	assert.Equal(t, "door_locked", out["scene_id"])
}

func TestInvalidConversationIsToolError(t *testing.T) {
	cs := connect(t)
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_current_scene",
		Arguments: map[string]any{"conversation_id": "../../etc"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
