package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
)

const defaultGeminiModel = "gemini-1.5-flash"

type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
}

var _ ports.CompletionProvider = (*Gemini)(nil)

func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{client: cl, model: model, temperature: float32(cfg.Temperature)}, nil
}

func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Complete replays the history into a chat session and sends the final user
// turn. System turns inside the history are folded into the instruction.
func (g *Gemini) Complete(ctx context.Context, system string, turns []domain.Turn) (string, error) {
	history, last, err := splitLast(turns)
	if err != nil {
		return "", err
	}

	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(g.temperature)

	instruction := []genai.Part{}
	if system != "" {
		instruction = append(instruction, genai.Text(system))
	}
	var chat []*genai.Content
	for _, t := range history {
		switch t.Role {
		case domain.RoleSystem:
			instruction = append(instruction, genai.Text(t.Content))
		case domain.RoleAssistant:
			chat = append(chat, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(t.Content)}})
		default:
			chat = append(chat, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(t.Content)}})
		}
	}
	if len(instruction) > 0 {
		m.SystemInstruction = &genai.Content{Parts: instruction}
	}

	cs := m.StartChat()
	cs.History = chat

	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyReply
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}
