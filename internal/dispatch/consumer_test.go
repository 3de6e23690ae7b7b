package dispatch

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

// fakeSubscriber delivers payloads from an in-memory channel.
type fakeSubscriber struct {
	ch chan []byte
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{ch: make(chan []byte, 8)}
}

func (f *fakeSubscriber) Subscribe(string) (<-chan []byte, func(), error) {
	return f.ch, func() { close(f.ch) }, nil
}

func (f *fakeSubscriber) Close() error { return nil }

func batchPayload(t *testing.T, batch QueueBatch) []byte {
	t.Helper()
	data, err := json.Marshal(batch)
	if err != nil {
		t.Fatalf("marshal batch: %v", err)
	}
	return data
}

func waitForDocs(t *testing.T, st *mockStore, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		docs, _ := st.FindBySessionID(context.Background(), sessionID)
		if len(docs) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	docs, _ := st.FindBySessionID(context.Background(), sessionID)
	t.Fatalf("store has %d documents for %s, want %d", len(docs), sessionID, want)
}

func TestConsumer_ProcessesBatches(t *testing.T) {
	st := newMockStore()
	d := newTestDispatcher(st)
	sub := newFakeSubscriber()

	c := NewConsumer(sub, d, "", nil)
	if err := c.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer c.Stop()

	sub.ch <- batchPayload(t, QueueBatch{Records: []QueueRecord{
		{MessageID: "m1", Body: recordJSON(t, validRecord("s1"))},
	}})

	waitForDocs(t, st, "s1", 1)
}

func TestConsumer_SkipsUndecodablePayloads(t *testing.T) {
	st := newMockStore()
	d := newTestDispatcher(st)
	sub := newFakeSubscriber()

	c := NewConsumer(sub, d, "ingest.test", nil)
	if err := c.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer c.Stop()

	// A broken payload must not stop the loop.
	sub.ch <- []byte("not json at all")
	sub.ch <- batchPayload(t, QueueBatch{Records: []QueueRecord{
		{MessageID: "m1", Body: recordJSON(t, validRecord("s2"))},
	}})

	waitForDocs(t, st, "s2", 1)
}

func TestConsumer_StopDrains(t *testing.T) {
	st := newMockStore()
	d := newTestDispatcher(st)
	sub := newFakeSubscriber()

	c := NewConsumer(sub, d, "", nil)
	if err := c.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		c.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return")
	}
}
