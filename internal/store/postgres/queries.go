package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/groblegark/sessionlog/internal/model"
	"github.com/groblegark/sessionlog/internal/store"
)

// docColumns is the column list used for SELECT statements on the
// session_documents table.
const docColumns = `id, session_id, events, created_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryFindBySessionID(ctx context.Context, db executor, sessionID string) ([]*model.SessionDocument, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+docColumns+` FROM session_documents WHERE session_id = $1 ORDER BY created_at, id`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func queryCreateDocument(ctx context.Context, db executor, doc *model.SessionDocument) error {
	events, err := json.Marshal(doc.Events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO session_documents (id, session_id, events, created_at)
		VALUES ($1, $2, $3, $4)`,
		doc.ID,
		doc.SessionID,
		events,
		doc.CreatedAt,
	)
	return err
}

// queryAppendEvent appends one event to the document's JSONB events array.
// The jsonb || operator concatenates server-side, so the current array is
// never read back before the write. Duplicate events are legal and
// preserved; retrying a lost append adds the event again.
func queryAppendEvent(ctx context.Context, db executor, docID string, ev model.StoredEvent) error {
	payload, err := json.Marshal([]model.StoredEvent{ev})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	res, err := db.ExecContext(ctx,
		`UPDATE session_documents SET events = events || $2::jsonb WHERE id = $1`,
		docID, payload)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// queryBatchDelete deletes the given documents in a single transaction so a
// partial delete is never observable.
func queryBatchDelete(ctx context.Context, db *sql.DB, ids []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM session_documents WHERE id = ANY($1)`,
		pq.Array(ids)); err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete transaction: %w", err)
	}
	return nil
}

func queryListDocuments(ctx context.Context, db executor) ([]*model.SessionDocument, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+docColumns+` FROM session_documents ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func scanDocuments(rows *sql.Rows) ([]*model.SessionDocument, error) {
	var docs []*model.SessionDocument
	for rows.Next() {
		var (
			doc    model.SessionDocument
			events []byte
		)
		if err := rows.Scan(&doc.ID, &doc.SessionID, &events, &doc.CreatedAt); err != nil {
			return nil, err
		}
		if len(events) > 0 {
			if err := json.Unmarshal(events, &doc.Events); err != nil {
				return nil, fmt.Errorf("unmarshal events for %s: %w", doc.ID, err)
			}
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}
