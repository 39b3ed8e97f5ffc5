package domain

import "time"

// Tab is one of the top-level views available after login.
type Tab string

const (
	TabChat      Tab = "chat"
	TabTools     Tab = "tools"
	TabResources Tab = "resources"
	TabCommunity Tab = "community"
)

// ParseTab validates a tab name received from the rendering host.
func ParseTab(s string) (Tab, error) {
	switch t := Tab(s); t {
	case TabChat, TabTools, TabResources, TabCommunity:
		return t, nil
	}
	return "", ErrUnknownTab
}

// Session is the per-connection state. It is handed explicitly to every
// operation and is never shared between connections.
type Session struct {
	ID            string    `json:"id"`
	Authenticated bool      `json:"authenticated"`
	Username      string    `json:"username,omitempty"`
	View          View      `json:"view"`
	Conversation  []Turn    `json:"conversation,omitempty"`
	HistorySeeded bool      `json:"history_seeded"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewSession returns an anonymous session.
func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now}
}

// Reset discards everything but the identifier.
func (s *Session) Reset() {
	*s = Session{ID: s.ID, CreatedAt: s.CreatedAt}
}
