// Package llm adapts hosted text-completion APIs to ports.CompletionProvider.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
)

const (
	ProviderNone      = "none"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"

	defaultTemperature = 0.7
	maxReplyTokens     = 1024
)

var (
	ErrEmptyConversation = errors.New("conversation must end with a user turn")
	ErrEmptyReply        = errors.New("completion returned no text")
)

// Config selects and configures a provider.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	BaseURL     string // anthropic only; used to point at a proxy
}

// New builds the configured provider. It returns a nil provider when
// completions are disabled or no API key is set; callers fall back to a
// canned reply in that case. The returned close func is never nil.
func New(ctx context.Context, cfg Config) (ports.CompletionProvider, func() error, error) {
	noop := func() error { return nil }
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderNone:
		return nil, noop, nil
	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, noop, nil
		}
		g, err := NewGemini(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		return g, g.Close, nil
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, noop, nil
		}
		return NewAnthropic(cfg), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}

// splitLast separates the prompt being answered from the preceding history.
func splitLast(turns []domain.Turn) ([]domain.Turn, domain.Turn, error) {
	if len(turns) == 0 || turns[len(turns)-1].Role != domain.RoleUser {
		return nil, domain.Turn{}, ErrEmptyConversation
	}
	return turns[:len(turns)-1], turns[len(turns)-1], nil
}
