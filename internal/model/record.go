package model

import (
	"fmt"
	"time"
)

// EventRecord is a single inbound event as it arrives on the wire, from
// either the queue or the HTTP ingress. All four fields are mandatory.
type EventRecord struct {
	SessionID string `json:"sessionId"`
	AgentName string `json:"agentName"`
	Event     string `json:"event"`
	CreatedAt string `json:"createdAt"` // ISO-8601 timestamp
}

// StoredEvent is the persisted form of an EventRecord, nested inside a
// session document's events array. Once appended it is never mutated;
// events are only removed wholesale when the session is flushed.
type StoredEvent struct {
	CreatedAt time.Time `json:"createdAt"`
	Source    string    `json:"source"` // = EventRecord.AgentName
	Event     string    `json:"event"`
}

// SessionDocument is the top-level persisted document accumulating all
// events for one session key. The sessionId is a lookup key, not a unique
// constraint: concurrent first-event upserts can race and leave more than
// one document per session (see session.Engine).
type SessionDocument struct {
	ID        string        `json:"id"`
	SessionID string        `json:"sessionId"`
	Events    []StoredEvent `json:"events"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ParseCreatedAt converts the wire timestamp string into a time.Time.
// It accepts RFC 3339 with or without fractional seconds.
func ParseCreatedAt(iso string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse createdAt %q: %w", iso, err)
	}
	return t, nil
}
