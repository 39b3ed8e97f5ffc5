package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/safespace/support-portal/internal/infrastructure/db/docstore"
)

const collectionDocuments = "documents"

// DocumentBackend stores each named document as a single MongoDB document
// holding the raw JSON payload, so the on-disk format stays identical to the
// file backend.
type DocumentBackend struct {
	col *mongo.Collection
}

var _ docstore.Backend = (*DocumentBackend)(nil)

func NewDocumentBackend(db *mongo.Database) *DocumentBackend {
	return &DocumentBackend{col: db.Collection(collectionDocuments)}
}

type documentRecord struct {
	Name      string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Read returns docstore.ErrNotFound when no document has been written yet.
func (b *DocumentBackend) Read(ctx context.Context, name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec documentRecord
	err := b.col.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", name, err)
	}
	return []byte(rec.Payload), nil
}

// Write replaces the whole document in a single upsert.
func (b *DocumentBackend) Write(ctx context.Context, name string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rec := documentRecord{Name: name, Payload: string(data), UpdatedAt: time.Now().UTC()}
	_, err := b.col.ReplaceOne(ctx, bson.M{"_id": name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (b *DocumentBackend) Ping(ctx context.Context) error {
	return b.col.Database().Client().Ping(ctx, nil)
}
