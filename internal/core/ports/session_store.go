package ports

import (
	"context"

	"github.com/safespace/support-portal/internal/core/domain"
)

// SessionStore keeps per-connection session state for the lifetime of the
// process. Get returns domain.ErrSessionNotFound for unknown or expired ids.
// Create stores a session at login. Save only updates a session that is
// still stored and returns domain.ErrSessionNotFound once it was deleted.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	Save(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id string) error
}
