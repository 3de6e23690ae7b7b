package model

import (
	"errors"
	"testing"
)

func validRecord() EventRecord {
	return EventRecord{
		SessionID: "s1",
		AgentName: "planner",
		Event:     "started",
		CreatedAt: "2025-01-01T00:00:00Z",
	}
}

func TestValidateRecord_Valid(t *testing.T) {
	rec := validRecord()
	if err := ValidateRecord(&rec); err != nil {
		t.Fatalf("ValidateRecord() = %v, want nil", err)
	}
}

func TestValidateRecord_MissingFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*EventRecord)
		wantField string
	}{
		{"missing sessionId", func(r *EventRecord) { r.SessionID = "" }, "sessionId"},
		{"missing agentName", func(r *EventRecord) { r.AgentName = "" }, "agentName"},
		{"missing event", func(r *EventRecord) { r.Event = "" }, "event"},
		{"missing createdAt", func(r *EventRecord) { r.CreatedAt = "" }, "createdAt"},
		{"whitespace sessionId", func(r *EventRecord) { r.SessionID = "   " }, "sessionId"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := validRecord()
			tc.mutate(&rec)

			err := ValidateRecord(&rec)
			if err == nil {
				t.Fatal("ValidateRecord() = nil, want error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error is %T, want *ValidationError", err)
			}
			if len(ve.Errors) != 1 {
				t.Fatalf("got %d field errors, want 1: %v", len(ve.Errors), ve)
			}
			if ve.Errors[0].Field != tc.wantField {
				t.Errorf("failed field = %q, want %q", ve.Errors[0].Field, tc.wantField)
			}
		})
	}
}

func TestValidateRecord_AllFieldsMissing(t *testing.T) {
	err := ValidateRecord(&EventRecord{})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error is %T, want *ValidationError", err)
	}
	if len(ve.Errors) != 4 {
		t.Errorf("got %d field errors, want 4", len(ve.Errors))
	}
}
