// Package docstore persists the portal's collections as whole JSON documents.
//
// A Backend moves raw bytes; Store layers typed collections, defaults and the
// comments normalizer on top of it.
package docstore

import (
	"context"
	"errors"

	"github.com/safespace/support-portal/internal/core/ports"
)

// Collection names double as document names: the file backend stores each
// one as <name>.json.
const (
	CollectionHistory      = ports.CollectionHistory
	CollectionComments     = ports.CollectionComments
	CollectionAppointments = ports.CollectionAppointments
)

// ErrNotFound is returned by a Backend when the named document does not exist.
var ErrNotFound = errors.New("document not found")

// Backend reads and replaces whole named documents. Write must never leave a
// partially written document visible to Read.
type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
}
