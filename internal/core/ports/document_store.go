package ports

import (
	"context"

	"github.com/safespace/support-portal/internal/core/domain"
)

// Named collections.
const (
	CollectionHistory      = "chat_history"
	CollectionComments     = "comments"
	CollectionAppointments = "appointments"
)

// DocumentStore loads and saves the named collections. Loads never fail:
// on any read or decode problem the collection's default is returned.
// Saves are best effort and keep the previous state on failure. Appointments
// are append-only: stored records are never rewritten.
type DocumentStore interface {
	LoadHistory(ctx context.Context) domain.History
	SaveHistory(ctx context.Context, h domain.History)

	LoadComments(ctx context.Context) domain.Board
	SaveComments(ctx context.Context, b domain.Board)

	LoadAppointments(ctx context.Context) []domain.Appointment
	AppendAppointment(ctx context.Context, a domain.Appointment)
}

// CollectionCoordinator runs fn with exclusive ownership of the named
// collection. Calls for the same collection never overlap.
type CollectionCoordinator interface {
	Do(ctx context.Context, collection string, fn func(ctx context.Context) error) error
}
