// Package store persists assembled report documents so they can be fetched,
// re-rendered or shared after generation.
//
// Two backends exist: a file store for CLI use (documents as JSON under the
// user's config directory) and a MongoDB store for server deployments.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hashheat/hashheat/pkg/report"
)

// Summary is the listing view of a stored document: identity and headline
// fields without the page tree.
type Summary struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Country   string    `json:"country" bson:"country"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store is the report document store.
type Store interface {
	// Save persists a document. Documents are validated before storage;
	// saving the same ID twice overwrites.
	Save(ctx context.Context, doc *report.Document) error

	// Get fetches a document by ID.
	Get(ctx context.Context, id uuid.UUID) (*report.Document, error)

	// List returns summaries of all stored documents, newest first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a document. Deleting a missing ID is an error.
	Delete(ctx context.Context, id uuid.UUID) error

	Close(ctx context.Context) error
}
