// Package tools exposes the session manager as MCP tools so a voice or chat
// assistant can drive the adventure.
package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tatianab/veritas-chamber/internal/session"
)

// ConversationInput identifies the conversation a tool acts on.
type ConversationInput struct {
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation identifier (defaults to \"default\")"`
}

// StartInput is the input of start_adventure.
type StartInput struct {
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation identifier (defaults to \"default\")"`
	PlayerName     string `json:"player_name,omitempty" jsonschema:"optional name of the player; keeps the previous name when empty"`
}

// SubmitInput is the input of submit_action.
type SubmitInput struct {
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation identifier (defaults to \"default\")"`
	Action         string `json:"action" jsonschema:"what the player said or typed"`
}

// SceneResult is the structured output shared by the scene tools.
type SceneResult struct {
	Text       string `json:"text" jsonschema:"narration to read to the player; always ends with the closing prompt"`
	SessionID  string `json:"session_id" jsonschema:"session identifier"`
	SceneID    string `json:"scene_id" jsonschema:"current scene identifier"`
	SceneTitle string `json:"scene_title,omitempty" jsonschema:"current scene title"`
	PlayerName string `json:"player_name,omitempty" jsonschema:"player name"`
}

// SubmitResult is the structured output of submit_action.
type SubmitResult struct {
	Text       string `json:"text" jsonschema:"narration to read to the player; always ends with the closing prompt"`
	SessionID  string `json:"session_id" jsonschema:"session identifier"`
	SceneID    string `json:"scene_id" jsonschema:"scene identifier after the action"`
	SceneTitle string `json:"scene_title,omitempty" jsonschema:"scene title after the action"`
	Resolved   bool   `json:"resolved" jsonschema:"whether the action matched a choice"`
	ChoiceID   string `json:"choice_id,omitempty" jsonschema:"identifier of the matched choice"`
}

// JournalResult is the structured output of show_journal.
type JournalResult struct {
	Text      string   `json:"text" jsonschema:"journal view to read to the player"`
	SessionID string   `json:"session_id" jsonschema:"session identifier"`
	StartedAt string   `json:"started_at" jsonschema:"RFC3339 timestamp when the session started"`
	Journal   []string `json:"journal" jsonschema:"journal entries, oldest first"`
	Inventory []string `json:"inventory" jsonschema:"inventory items, oldest first"`
}

func StartTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "start_adventure",
		Description: "Starts a new adventure for the conversation, replacing any adventure in progress, and returns the opening scene.",
	}
}

func CurrentSceneTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_current_scene",
		Description: "Describes the player's current scene and the options available there.",
	}
}

func SubmitTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "submit_action",
		Description: "Submits what the player said. Moves the story forward when it matches an option, otherwise repeats the options.",
	}
}

func JournalTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "show_journal",
		Description: "Shows the player's journal, inventory, and recent path through the chamber.",
	}
}

func RestartTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "restart_adventure",
		Description: "Restarts the adventure from the beginning, keeping the player's name.",
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func sceneResult(m *session.Manager, r session.Reply) SceneResult {
	res := SceneResult{
		Text:       r.Text,
		SessionID:  r.Session.ID,
		SceneID:    r.Session.SceneID,
		PlayerName: r.Session.PlayerName,
	}
	if sc, ok := m.Engine().World().Scene(r.Session.SceneID); ok {
		res.SceneTitle = sc.Title
	}
	return res
}

func StartHandler(m *session.Manager) mcp.ToolHandlerFor[StartInput, SceneResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StartInput) (*mcp.CallToolResult, SceneResult, error) {
		r, err := m.Start(ctx, input.ConversationID, input.PlayerName)
		if err != nil {
			return nil, SceneResult{}, fmt.Errorf("start adventure: %w", err)
		}
		return textResult(r.Text), sceneResult(m, r), nil
	}
}

func CurrentSceneHandler(m *session.Manager) mcp.ToolHandlerFor[ConversationInput, SceneResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ConversationInput) (*mcp.CallToolResult, SceneResult, error) {
		r, err := m.CurrentScene(ctx, input.ConversationID)
		if err != nil {
			return nil, SceneResult{}, fmt.Errorf("get current scene: %w", err)
		}
		return textResult(r.Text), sceneResult(m, r), nil
	}
}

func SubmitHandler(m *session.Manager) mcp.ToolHandlerFor[SubmitInput, SubmitResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SubmitInput) (*mcp.CallToolResult, SubmitResult, error) {
		r, err := m.Submit(ctx, input.ConversationID, input.Action)
		if err != nil {
			return nil, SubmitResult{}, fmt.Errorf("submit action: %w", err)
		}
		sc := sceneResult(m, r)
		return textResult(r.Text), SubmitResult{
			Text:       sc.Text,
			SessionID:  sc.SessionID,
			SceneID:    sc.SceneID,
			SceneTitle: sc.SceneTitle,
			Resolved:   r.Resolved,
			ChoiceID:   r.ChoiceID,
		}, nil
	}
}

func JournalHandler(m *session.Manager) mcp.ToolHandlerFor[ConversationInput, JournalResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ConversationInput) (*mcp.CallToolResult, JournalResult, error) {
		r, err := m.Journal(ctx, input.ConversationID)
		if err != nil {
			return nil, JournalResult{}, fmt.Errorf("show journal: %w", err)
		}
		return textResult(r.Text), JournalResult{
			Text:      r.Text,
			SessionID: r.Session.ID,
			StartedAt: r.Session.StartedAt.Format(time.RFC3339),
			Journal:   r.Session.Journal,
			Inventory: r.Session.Inventory,
		}, nil
	}
}

func RestartHandler(m *session.Manager) mcp.ToolHandlerFor[ConversationInput, SceneResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ConversationInput) (*mcp.CallToolResult, SceneResult, error) {
		r, err := m.Restart(ctx, input.ConversationID)
		if err != nil {
			return nil, SceneResult{}, fmt.Errorf("restart adventure: %w", err)
		}
		return textResult(r.Text), sceneResult(m, r), nil
	}
}

// NewServer registers every adventure tool on a new MCP server.
func NewServer(m *session.Manager, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "veritas-chamber", Version: version}, nil)
	mcp.AddTool(server, StartTool(), StartHandler(m))
	mcp.AddTool(server, CurrentSceneTool(), CurrentSceneHandler(m))
	mcp.AddTool(server, SubmitTool(), SubmitHandler(m))
	mcp.AddTool(server, JournalTool(), JournalHandler(m))
	mcp.AddTool(server, RestartTool(), RestartHandler(m))
	return server
}

// Serve runs server on transport until the client disconnects or ctx ends.
func Serve(ctx context.Context, server *mcp.Server, transport mcp.Transport) error {
	err := server.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
