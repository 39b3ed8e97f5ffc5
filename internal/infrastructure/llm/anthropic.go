package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

type Anthropic struct {
	client      anthropic.Client
	model       string
	temperature float64
}

var _ ports.CompletionProvider = (*Anthropic)(nil)

func NewAnthropic(cfg Config) *Anthropic {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(1)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	return &Anthropic{client: anthropic.NewClient(opts...), model: model, temperature: cfg.Temperature}
}

func (a *Anthropic) Complete(ctx context.Context, system string, turns []domain.Turn) (string, error) {
	if _, _, err := splitLast(turns); err != nil {
		return "", err
	}

	instruction := []anthropic.TextBlockParam{}
	if system != "" {
		instruction = append(instruction, anthropic.TextBlockParam{Text: system})
	}
	messages := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case domain.RoleSystem:
			instruction = append(instruction, anthropic.TextBlockParam{Text: t.Content})
		case domain.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
		}
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   maxReplyTokens,
		System:      instruction,
		Messages:    messages,
		Temperature: anthropic.Float(a.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyReply
	}
	return b.String(), nil
}
