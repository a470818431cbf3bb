package player

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

//go:embed prompts/next_action.txt
var nextActionPrompt string

var nextActionTmpl = template.Must(template.New("next_action").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(nextActionPrompt))

// Gemini asks a Gemini model what to say next.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the Gemini player")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

func (g *Gemini) Close() {
	g.client.Close()
}

func renderPrompt(v View) (string, error) {
	var buf bytes.Buffer
	if err := nextActionTmpl.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (g *Gemini) NextAction(ctx context.Context, v View) (string, error) {
	prompt, err := renderPrompt(v)
	if err != nil {
		return "", err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	action := cleanAction(string(text))
	if action == "" {
		return "", fmt.Errorf("empty action from Gemini")
	}
	return action, nil
}
