// Package backup periodically exports all session documents as JSONL to one
// or more destinations (S3-compatible storage).
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/groblegark/sessionlog/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version       string    `json:"version"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	DocumentCount int       `json:"document_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every session document from the store as JSONL to w,
// preceded by a header record.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	docs, err := s.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(header{
		Version:       "1",
		Type:          "header",
		Timestamp:     time.Now().UTC(),
		DocumentCount: len(docs),
	}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, doc := range docs {
		if err := enc.Encode(record{Type: "session", Data: doc}); err != nil {
			return fmt.Errorf("write document %s: %w", doc.ID, err)
		}
	}

	return nil
}
