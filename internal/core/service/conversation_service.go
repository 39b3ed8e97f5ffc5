package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
	"github.com/safespace/support-portal/internal/pkg/metrics"
)

// SystemPrompt is prepended to every completion request.
const SystemPrompt = "You are a confidential, non-judgmental Mental Health Support Chatbot.\n" +
	"You are not a substitute for a professional. Respond with empathy, calm, concise steps and safety guidance when needed."

// DefaultFallbackReply is returned whenever the completion provider fails.
const DefaultFallbackReply = "I'm here to listen"

const defaultCompletionTimeout = 30 * time.Second

type ConversationConfig struct {
	Timeout  time.Duration
	Fallback string
}

type ConversationService struct {
	store       ports.DocumentStore
	coordinator ports.CollectionCoordinator
	completion  ports.CompletionProvider // nil disables completions
	cfg         ConversationConfig
	logger      zerolog.Logger
}

var _ ports.ConversationService = (*ConversationService)(nil)

func NewConversationService(
	store ports.DocumentStore,
	coordinator ports.CollectionCoordinator,
	completion ports.CompletionProvider,
	cfg ConversationConfig,
	logger zerolog.Logger,
) *ConversationService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultCompletionTimeout
	}
	if cfg.Fallback == "" {
		cfg.Fallback = DefaultFallbackReply
	}
	return &ConversationService{
		store:       store,
		coordinator: coordinator,
		completion:  completion,
		cfg:         cfg,
		logger:      logger,
	}
}

// Get returns the stored conversation for username, or an empty one.
// It fails only when the history collection could not be reached.
func (s *ConversationService) Get(ctx context.Context, username string) ([]domain.Turn, error) {
	turns := []domain.Turn{}
	err := s.coordinator.Do(ctx, ports.CollectionHistory, func(ctx context.Context) error {
		if stored, ok := s.store.LoadHistory(ctx)[username]; ok {
			turns = append(turns, stored...)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("history unavailable")
		return nil, fmt.Errorf("load history: %w", errors.Join(domain.ErrCollectionUnavailable, err))
	}
	return turns, nil
}

// AppendAndPersist appends turn to the session's conversation and rewrites
// the whole history collection with the user's entry replaced. A session
// that was never seeded picks up the stored sequence first.
func (s *ConversationService) AppendAndPersist(ctx context.Context, sess *domain.Session, turn domain.Turn) error {
	if !sess.Authenticated {
		return domain.ErrUnauthenticated
	}

	var merged []domain.Turn
	err := s.coordinator.Do(ctx, ports.CollectionHistory, func(ctx context.Context) error {
		h := s.store.LoadHistory(ctx)
		merged = make([]domain.Turn, 0, len(h[sess.Username])+len(sess.Conversation)+1)
		if !sess.HistorySeeded {
			merged = append(merged, h[sess.Username]...)
		}
		merged = append(merged, sess.Conversation...)
		merged = append(merged, turn)
		h[sess.Username] = merged
		s.store.SaveHistory(ctx, h)
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist history: %w", errors.Join(domain.ErrCollectionUnavailable, err))
	}

	sess.Conversation = append([]domain.Turn(nil), merged...)
	sess.HistorySeeded = true
	return nil
}

// Chat records prompt, asks the completion provider for a reply and records
// that too. Provider failures never surface: the fallback reply is used.
func (s *ConversationService) Chat(ctx context.Context, sess *domain.Session, prompt string) (string, error) {
	if !sess.Authenticated {
		return "", domain.ErrUnauthenticated
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt is empty", domain.ErrValidation)
	}

	if err := s.AppendAndPersist(ctx, sess, domain.Turn{Role: domain.RoleUser, Content: prompt}); err != nil {
		return "", err
	}

	reply := s.complete(ctx, sess.Conversation)

	if err := s.AppendAndPersist(ctx, sess, domain.Turn{Role: domain.RoleAssistant, Content: reply}); err != nil {
		return "", err
	}
	return reply, nil
}

func (s *ConversationService) complete(ctx context.Context, turns []domain.Turn) string {
	if s.completion == nil {
		metrics.CompletionFallbacksTotal.WithLabelValues("disabled").Inc()
		return s.cfg.Fallback
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	reply, err := s.completion.Complete(ctx, SystemPrompt, turns)
	reply = strings.TrimSpace(reply)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return s.fallback(start, "timeout", err)
	case err != nil:
		return s.fallback(start, "error", err)
	case reply == "":
		return s.fallback(start, "empty", nil)
	}

	metrics.CompletionDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	return reply
}

func (s *ConversationService) fallback(start time.Time, reason string, err error) string {
	metrics.CompletionDuration.WithLabelValues(reason).Observe(time.Since(start).Seconds())
	metrics.CompletionFallbacksTotal.WithLabelValues(reason).Inc()
	s.logger.Warn().Err(err).Str("reason", reason).Msg("completion failed, using fallback reply")
	return s.cfg.Fallback
}
