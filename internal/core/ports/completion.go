package ports

import (
	"context"

	"github.com/safespace/support-portal/internal/core/domain"
)

// CompletionProvider produces a single assistant reply for a conversation
// prefixed by a system instruction.
type CompletionProvider interface {
	Complete(ctx context.Context, system string, turns []domain.Turn) (string, error)
}
