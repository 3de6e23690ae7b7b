package events

import (
	"context"

	"github.com/groblegark/sessionlog/internal/model"
)

// Notification topic constants.
const (
	TopicSessionCreated = "sessionlog.session.created"
	TopicEventAppended  = "sessionlog.event.appended"
	TopicSessionFlushed = "sessionlog.session.flushed"
)

// IngestSubject is the default subject the queue ingress consumes batches
// from. Overridable via configuration.
const IngestSubject = "sessionlog.ingest"

// Notification payloads.

type SessionCreated struct {
	SessionID  string `json:"session_id"`
	DocumentID string `json:"document_id"`
}

type EventAppended struct {
	SessionID  string            `json:"session_id"`
	DocumentID string            `json:"document_id"`
	Event      model.StoredEvent `json:"event"`
}

type SessionFlushed struct {
	SessionID        string `json:"session_id"`
	DeletedDocuments int    `json:"deleted_documents"`
}

// Publisher is the interface for emitting notifications.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
