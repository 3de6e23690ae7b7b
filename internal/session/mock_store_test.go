package session

import (
	"context"
	"sort"

	"github.com/groblegark/sessionlog/internal/model"
	"github.com/groblegark/sessionlog/internal/store"
)

// mockStore is a minimal in-memory store for engine tests. It records the
// calls that matter to the tests (deletes in particular) and can be primed
// to fail any operation.
type mockStore struct {
	docs map[string]*model.SessionDocument

	deleteCalls [][]string

	findErr   error
	createErr error
	appendErr error
	deleteErr error
}

func newMockStore() *mockStore {
	return &mockStore{docs: make(map[string]*model.SessionDocument)}
}

func (m *mockStore) FindBySessionID(_ context.Context, sessionID string) ([]*model.SessionDocument, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var result []*model.SessionDocument
	for _, d := range m.docs {
		if d.SessionID == sessionID {
			result = append(result, d)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *mockStore) CreateDocument(_ context.Context, doc *model.SessionDocument) error {
	if m.createErr != nil {
		return m.createErr
	}
	clone := *doc
	clone.Events = append([]model.StoredEvent(nil), doc.Events...)
	m.docs[doc.ID] = &clone
	return nil
}

func (m *mockStore) AppendEvent(_ context.Context, docID string, ev model.StoredEvent) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	d, ok := m.docs[docID]
	if !ok {
		return store.ErrNotFound
	}
	d.Events = append(d.Events, ev)
	return nil
}

func (m *mockStore) BatchDelete(_ context.Context, ids []string) error {
	m.deleteCalls = append(m.deleteCalls, ids)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, id := range ids {
		delete(m.docs, id)
	}
	return nil
}

func (m *mockStore) ListDocuments(_ context.Context) ([]*model.SessionDocument, error) {
	var result []*model.SessionDocument
	for _, d := range m.docs {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockStore) Close() error { return nil }
