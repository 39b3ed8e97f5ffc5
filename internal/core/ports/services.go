package ports

import (
	"context"

	"github.com/safespace/support-portal/internal/core/domain"
)

// ConversationService owns per-user chat history.
type ConversationService interface {
	Get(ctx context.Context, username string) ([]domain.Turn, error)
	AppendAndPersist(ctx context.Context, s *domain.Session, turn domain.Turn) error
	Chat(ctx context.Context, s *domain.Session, prompt string) (string, error)
}

// CommunityService owns the topic board.
type CommunityService interface {
	List(ctx context.Context, topic domain.Topic) ([]domain.Comment, error)
	Post(ctx context.Context, topic domain.Topic, author, body string) (*domain.Comment, error)
	Preview(ctx context.Context, topic domain.Topic) (string, error)
	Overview(ctx context.Context) ([]domain.TopicPreview, error)
}

// AppointmentService owns the booking ledger.
type AppointmentService interface {
	Book(ctx context.Context, input BookAppointmentInput) (*domain.Appointment, error)
	List(ctx context.Context, patient string) ([]domain.Appointment, error)
}

// BookAppointmentInput carries the appointment form fields.
type BookAppointmentInput struct {
	Patient  string
	Contact  string
	Provider string
	Date     string
	Time     string
	Reason   string
}

// Screen is everything the rendering host needs after a navigation step.
// Turns is set when the chat tab is entered, Comments when a topic is opened
// (oldest first).
type Screen struct {
	State    domain.State     `json:"state"`
	Username string           `json:"username,omitempty"`
	Tab      domain.Tab       `json:"tab,omitempty"`
	Topic    domain.Topic     `json:"topic,omitempty"`
	Turns    []domain.Turn    `json:"turns,omitempty"`
	Comments []domain.Comment `json:"comments,omitempty"`
}

// NavigationService drives the session state machine.
type NavigationService interface {
	Start(ctx context.Context) (*domain.Session, error)
	Login(ctx context.Context, s *domain.Session, username, password string) (*Screen, error)
	SelectTab(ctx context.Context, s *domain.Session, tab domain.Tab) (*Screen, error)
	OpenTopic(ctx context.Context, s *domain.Session, topic domain.Topic) (*Screen, error)
	Back(ctx context.Context, s *domain.Session) (*Screen, error)
	Logout(ctx context.Context, s *domain.Session) error
	Current(s *domain.Session) *Screen
}

// Resources is the content of the resources tab.
type Resources struct {
	Providers []domain.Provider `json:"doctors"`
	Videos    []domain.Video    `json:"videos"`
}

// CatalogService serves static content. Picks are uniformly random.
type CatalogService interface {
	Resources() Resources
	Affirmation() string
	Meditation() string
}
