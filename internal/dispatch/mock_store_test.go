package dispatch

import (
	"context"
	"sort"

	"github.com/groblegark/sessionlog/internal/model"
	"github.com/groblegark/sessionlog/internal/store"
)

// mockStore is a minimal in-memory store backing the dispatcher tests.
// failOnSession makes every store call for that session fail, which lets
// tests inject a mid-batch store failure.
type mockStore struct {
	docs          map[string]*model.SessionDocument
	failOnSession string
	failErr       error
}

func newMockStore() *mockStore {
	return &mockStore{docs: make(map[string]*model.SessionDocument)}
}

func (m *mockStore) FindBySessionID(_ context.Context, sessionID string) ([]*model.SessionDocument, error) {
	if sessionID == m.failOnSession {
		return nil, m.failErr
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
	clone := *doc
	clone.Events = append([]model.StoredEvent(nil), doc.Events...)
	m.docs[doc.ID] = &clone
	return nil
}

func (m *mockStore) AppendEvent(_ context.Context, docID string, ev model.StoredEvent) error {
	d, ok := m.docs[docID]
	if !ok {
		return store.ErrNotFound
	}
	d.Events = append(d.Events, ev)
	return nil
}

func (m *mockStore) BatchDelete(_ context.Context, ids []string) error {
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
