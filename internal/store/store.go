package store

import (
	"context"
	"errors"

	"github.com/groblegark/sessionlog/internal/model"
)

// ErrNotFound is returned when an operation targets a document that does not
// exist (for example an append racing a flush that already deleted it).
var ErrNotFound = errors.New("session document not found")

// Store defines the persistence interface for session documents.
type Store interface {
	// FindBySessionID returns every document whose sessionId matches the
	// key, oldest first. The result is empty (not an error) when no
	// document exists.
	FindBySessionID(ctx context.Context, sessionID string) ([]*model.SessionDocument, error)

	// CreateDocument inserts a new document. The caller assigns the ID.
	CreateDocument(ctx context.Context, doc *model.SessionDocument) error

	// AppendEvent appends one event to the document's events array without
	// reading the array first. Returns ErrNotFound if the document no
	// longer exists.
	AppendEvent(ctx context.Context, docID string, ev model.StoredEvent) error

	// BatchDelete removes the given documents as a single atomic unit:
	// either all of them are deleted or none are.
	BatchDelete(ctx context.Context, ids []string) error

	// ListDocuments returns every session document, oldest first.
	ListDocuments(ctx context.Context) ([]*model.SessionDocument, error)

	// Lifecycle
	Close() error
}
