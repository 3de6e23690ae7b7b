// Package session implements the aggregation core: upserting events into
// per-session append-only documents and flushing a session's accumulated log.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/groblegark/sessionlog/internal/events"
	"github.com/groblegark/sessionlog/internal/idgen"
	"github.com/groblegark/sessionlog/internal/model"
	"github.com/groblegark/sessionlog/internal/store"
)

// Engine folds events into session documents and services flush requests.
// The store and publisher are injected so the engine can be exercised
// against substitutes in tests.
type Engine struct {
	store     store.Store
	publisher events.Publisher
	logger    *slog.Logger
}

// UpsertResult reports where an event landed.
type UpsertResult struct {
	DocumentID string `json:"documentId"`
	Created    bool   `json:"created"`
}

// FlushResult reports the outcome of a flush.
type FlushResult struct {
	Action           string `json:"action"` // always "flush"
	DeletedDocuments int    `json:"deletedDocuments"`
}

// NewEngine returns an Engine backed by the given store and publisher.
func NewEngine(s store.Store, p events.Publisher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: s, publisher: p, logger: logger}
}

// Upsert locates or creates the session's document and appends the event.
// The find-then-write pair is not atomic: two concurrent upserts for the
// same unseen session can both create a document, leaving duplicates for
// one key. When duplicates exist the append goes to the oldest document
// and the rest are left alone; flush removes all of them.
//
// Once Upsert returns nil the event is committed and visible to reads.
func (e *Engine) Upsert(ctx context.Context, sessionID string, ev model.StoredEvent) (UpsertResult, error) {
	docs, err := e.store.FindBySessionID(ctx, sessionID)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("find session %s: %w", sessionID, err)
	}

	if len(docs) == 0 {
		id, err := idgen.Generate()
		if err != nil {
			return UpsertResult{}, fmt.Errorf("session %s: %w", sessionID, err)
		}
		doc := &model.SessionDocument{
			ID:        id,
			SessionID: sessionID,
			Events:    []model.StoredEvent{ev},
			CreatedAt: time.Now().UTC(),
		}
		if err := e.store.CreateDocument(ctx, doc); err != nil {
			return UpsertResult{}, fmt.Errorf("create document for session %s: %w", sessionID, err)
		}
		e.notify(ctx, events.TopicSessionCreated, sessionID, events.SessionCreated{
			SessionID:  sessionID,
			DocumentID: id,
		})
		e.notify(ctx, events.TopicEventAppended, sessionID, events.EventAppended{
			SessionID:  sessionID,
			DocumentID: id,
			Event:      ev,
		})
		return UpsertResult{DocumentID: id, Created: true}, nil
	}

	// Oldest document wins when duplicates exist.
	target := docs[0]
	if err := e.store.AppendEvent(ctx, target.ID, ev); err != nil {
		return UpsertResult{}, fmt.Errorf("append to session %s: %w", sessionID, err)
	}
	e.notify(ctx, events.TopicEventAppended, sessionID, events.EventAppended{
		SessionID:  sessionID,
		DocumentID: target.ID,
		Event:      ev,
	})
	return UpsertResult{DocumentID: target.ID, Created: false}, nil
}

// Flush deletes every document accumulated for the session as one atomic
// batch and reports how many were removed. A session with no documents is
// not an error: the result is zero and no delete is issued. The flush
// itself leaves no persisted trace.
func (e *Engine) Flush(ctx context.Context, sessionID string) (FlushResult, error) {
	docs, err := e.store.FindBySessionID(ctx, sessionID)
	if err != nil {
		return FlushResult{}, fmt.Errorf("find session %s: %w", sessionID, err)
	}

	result := FlushResult{Action: "flush"}
	if len(docs) == 0 {
		return result, nil
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	if err := e.store.BatchDelete(ctx, ids); err != nil {
		return FlushResult{}, fmt.Errorf("flush session %s: %w", sessionID, err)
	}

	result.DeletedDocuments = len(ids)
	e.notify(ctx, events.TopicSessionFlushed, sessionID, events.SessionFlushed{
		SessionID:        sessionID,
		DeletedDocuments: result.DeletedDocuments,
	})
	return result, nil
}

// notify publishes a notification best-effort; failures are logged and never
// block the caller.
func (e *Engine) notify(ctx context.Context, topic, sessionID string, event any) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, topic, event); err != nil {
		e.logger.Warn("failed to publish notification", "topic", topic, "session_id", sessionID, "err", err)
	}
}
