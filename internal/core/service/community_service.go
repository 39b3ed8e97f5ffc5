package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
	"github.com/safespace/support-portal/internal/pkg/metrics"
)

const (
	DefaultPreviewLength = 110
	previewMarker        = "..."
	EmptyTopicPreview    = "No messages yet — be the first!"
)

type CommunityService struct {
	store         ports.DocumentStore
	coordinator   ports.CollectionCoordinator
	previewLength int
	logger        zerolog.Logger

	now   func() time.Time
	newID func() string
}

var _ ports.CommunityService = (*CommunityService)(nil)

func NewCommunityService(store ports.DocumentStore, coordinator ports.CollectionCoordinator, previewLength int, logger zerolog.Logger) *CommunityService {
	if previewLength <= 0 {
		previewLength = DefaultPreviewLength
	}
	return &CommunityService{
		store:         store,
		coordinator:   coordinator,
		previewLength: previewLength,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         uuid.NewString,
	}
}

// List returns the topic's comments, oldest first.
func (s *CommunityService) List(ctx context.Context, topic domain.Topic) ([]domain.Comment, error) {
	if !topic.IsKnown() {
		return nil, domain.ErrUnknownTopic
	}
	var out []domain.Comment
	err := s.withBoard(ctx, func(b domain.Board) {
		out = append([]domain.Comment{}, b[topic]...)
	})
	return out, err
}

// Post appends a comment to topic and persists the whole board in one write.
func (s *CommunityService) Post(ctx context.Context, topic domain.Topic, author, body string) (*domain.Comment, error) {
	if !topic.IsKnown() {
		return nil, domain.ErrUnknownTopic
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: comment text is empty", domain.ErrValidation)
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = domain.DefaultAuthor
	}

	var posted domain.Comment
	err := s.coordinator.Do(ctx, ports.CollectionComments, func(ctx context.Context) error {
		b := s.store.LoadComments(ctx)
		created := s.now()
		// keep created_at non-decreasing within the topic even if the clock steps back
		if list := b[topic]; len(list) > 0 && created.Before(list[len(list)-1].CreatedAt) {
			created = list[len(list)-1].CreatedAt
		}
		posted = domain.Comment{ID: s.newID(), Author: author, Body: body, CreatedAt: created}
		b[topic] = append(b[topic], posted)
		s.store.SaveComments(ctx, b)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("post comment: %w", errors.Join(domain.ErrCollectionUnavailable, err))
	}

	metrics.CommentsPostedTotal.WithLabelValues(string(topic)).Inc()
	s.logger.Info().Str("topic", string(topic)).Str("comment_id", posted.ID).Msg("comment posted")
	return &posted, nil
}

// Preview summarises the most recent comment in topic.
func (s *CommunityService) Preview(ctx context.Context, topic domain.Topic) (string, error) {
	list, err := s.List(ctx, topic)
	if err != nil {
		return "", err
	}
	return s.preview(list), nil
}

// Overview previews every topic in display order from a single load.
func (s *CommunityService) Overview(ctx context.Context) ([]domain.TopicPreview, error) {
	out := make([]domain.TopicPreview, 0, len(domain.Topics))
	err := s.withBoard(ctx, func(b domain.Board) {
		for _, t := range domain.Topics {
			out = append(out, domain.TopicPreview{Topic: t, Preview: s.preview(b[t]), Count: len(b[t])})
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CommunityService) withBoard(ctx context.Context, fn func(domain.Board)) error {
	err := s.coordinator.Do(ctx, ports.CollectionComments, func(ctx context.Context) error {
		fn(s.store.LoadComments(ctx))
		return nil
	})
	if err != nil {
		return fmt.Errorf("load comments: %w", errors.Join(domain.ErrCollectionUnavailable, err))
	}
	return nil
}

func (s *CommunityService) preview(list []domain.Comment) string {
	if len(list) == 0 {
		return EmptyTopicPreview
	}
	return truncate(list[len(list)-1].Body, s.previewLength)
}

// truncate cuts text to n runes and appends the marker when anything was cut.
func truncate(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + previewMarker
}
