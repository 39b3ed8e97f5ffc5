package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
	"github.com/safespace/support-portal/internal/pkg/metrics"
)

// NavigationService applies view transitions to a session and performs the
// loads each transition implies. Transitions never write to a collection.
type NavigationService struct {
	sessions     ports.SessionStore
	conversation ports.ConversationService
	community    ports.CommunityService
	logger       zerolog.Logger

	now   func() time.Time
	newID func() string
}

var _ ports.NavigationService = (*NavigationService)(nil)

func NewNavigationService(
	sessions ports.SessionStore,
	conversation ports.ConversationService,
	community ports.CommunityService,
	logger zerolog.Logger,
) *NavigationService {
	return &NavigationService{
		sessions:     sessions,
		conversation: conversation,
		community:    community,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
}

// Start returns a fresh anonymous session. It is not stored until login.
func (n *NavigationService) Start(_ context.Context) (*domain.Session, error) {
	return domain.NewSession(n.newID(), n.now()), nil
}

func (n *NavigationService) Login(ctx context.Context, s *domain.Session, username, password string) (*ports.Screen, error) {
	if s.Authenticated {
		return nil, domain.ErrInvalidTransition
	}
	name, err := domain.CheckCredentials(username, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	s.Authenticated = true
	s.Username = name
	s.View = domain.Landing()

	screen, err := n.enter(ctx, s)
	if err != nil {
		s.Reset()
		return nil, err
	}
	if err := n.sessions.Create(ctx, s); err != nil {
		s.Reset()
		return nil, fmt.Errorf("create session: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("accepted").Inc()
	n.logger.Info().Str("session_id", s.ID).Str("username", name).Msg("login")
	return screen, nil
}

func (n *NavigationService) SelectTab(ctx context.Context, s *domain.Session, tab domain.Tab) (*ports.Screen, error) {
	return n.transition(ctx, s, func(v domain.View) (domain.View, error) { return v.SelectTab(tab) })
}

func (n *NavigationService) OpenTopic(ctx context.Context, s *domain.Session, topic domain.Topic) (*ports.Screen, error) {
	return n.transition(ctx, s, func(v domain.View) (domain.View, error) { return v.OpenTopic(topic) })
}

func (n *NavigationService) Back(ctx context.Context, s *domain.Session) (*ports.Screen, error) {
	return n.transition(ctx, s, domain.View.Back)
}

// Logout discards the session from the store and resets it in place.
func (n *NavigationService) Logout(ctx context.Context, s *domain.Session) error {
	if _, err := s.View.Logout(); err != nil {
		return err
	}
	if err := n.sessions.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n.logger.Info().Str("session_id", s.ID).Str("username", s.Username).Msg("logout")
	s.Reset()
	return nil
}

// Current describes the session without loading anything.
func (n *NavigationService) Current(s *domain.Session) *ports.Screen {
	screen := screenOf(s)
	if s.View.State() == domain.StateTab && s.View.Tab == domain.TabChat {
		screen.Turns = append([]domain.Turn{}, s.Conversation...)
	}
	return screen
}

func (n *NavigationService) transition(ctx context.Context, s *domain.Session, step func(domain.View) (domain.View, error)) (*ports.Screen, error) {
	next, err := step(s.View)
	if err != nil {
		return nil, err
	}
	prev := s.View
	s.View = next

	screen, err := n.enter(ctx, s)
	if err != nil {
		s.View = prev
		return nil, err
	}
	if err := n.sessions.Save(ctx, s); err != nil {
		s.View = prev
		return nil, fmt.Errorf("save session: %w", err)
	}
	return screen, nil
}

// enter performs the load tied to the session's current view. A load that
// could not run fails with domain.ErrCollectionUnavailable and leaves the
// session unseeded.
func (n *NavigationService) enter(ctx context.Context, s *domain.Session) (*ports.Screen, error) {
	screen := screenOf(s)
	switch {
	case s.View.State() == domain.StateCommunityTopic:
		comments, err := n.community.List(ctx, s.View.Topic)
		if err != nil {
			n.logger.Error().Err(err).Str("topic", string(s.View.Topic)).Msg("topic load failed")
			return nil, fmt.Errorf("enter %s: %w", s.View.State(), unavailable(err))
		}
		screen.Comments = comments
	case s.View.Tab == domain.TabChat:
		if !s.HistorySeeded {
			turns, err := n.conversation.Get(ctx, s.Username)
			if err != nil {
				return nil, fmt.Errorf("enter %s: %w", s.View.State(), unavailable(err))
			}
			s.Conversation = turns
			s.HistorySeeded = true
		}
		screen.Turns = append([]domain.Turn{}, s.Conversation...)
	}
	return screen, nil
}

// unavailable keeps err's own classification when it has one.
func unavailable(err error) error {
	if errors.Is(err, domain.ErrCollectionUnavailable) || errors.Is(err, domain.ErrUnknownTopic) {
		return err
	}
	return errors.Join(domain.ErrCollectionUnavailable, err)
}

func screenOf(s *domain.Session) *ports.Screen {
	return &ports.Screen{
		State:    s.View.State(),
		Username: s.Username,
		Tab:      s.View.Tab,
		Topic:    s.View.Topic,
	}
}
