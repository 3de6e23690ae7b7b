package model

import (
	"testing"
	"time"
)

func TestClassify_Append(t *testing.T) {
	rec := EventRecord{
		SessionID: "s1",
		AgentName: "planner",
		Event:     "started",
		CreatedAt: "2025-01-01T12:30:00Z",
	}

	cmd, err := Classify(&rec)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if cmd.Kind != CommandAppend {
		t.Fatalf("Kind = %v, want CommandAppend", cmd.Kind)
	}
	if cmd.SessionID != "s1" {
		t.Errorf("SessionID = %q, want %q", cmd.SessionID, "s1")
	}
	if cmd.Event.Source != "planner" || cmd.Event.Event != "started" {
		t.Errorf("event = %+v, want source=planner event=started", cmd.Event)
	}
	want := time.Date(2025, 1, 1, 12, 30, 0, 0, time.UTC)
	if !cmd.Event.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", cmd.Event.CreatedAt, want)
	}
}

func TestClassify_FlushTrigger(t *testing.T) {
	tests := []struct {
		name      string
		agentName string
		event     string
		wantKind  CommandKind
	}{
		{"exact match", "analysis-agent", "Flush", CommandFlush},
		{"wrong agent", "other-agent", "Flush", CommandAppend},
		{"wrong event", "analysis-agent", "flush", CommandAppend}, // case-sensitive
		{"uppercase agent", "Analysis-Agent", "Flush", CommandAppend},
		{"ordinary event from flush agent", "analysis-agent", "started", CommandAppend},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := EventRecord{
				SessionID: "s1",
				AgentName: tc.agentName,
				Event:     tc.event,
				CreatedAt: "2025-01-01T00:00:00Z",
			}
			cmd, err := Classify(&rec)
			if err != nil {
				t.Fatalf("Classify() error: %v", err)
			}
			if cmd.Kind != tc.wantKind {
				t.Errorf("Kind = %v, want %v", cmd.Kind, tc.wantKind)
			}
		})
	}
}

func TestClassify_BadTimestamp(t *testing.T) {
	rec := EventRecord{
		SessionID: "s1",
		AgentName: "planner",
		Event:     "started",
		CreatedAt: "yesterday",
	}
	if _, err := Classify(&rec); err == nil {
		t.Fatal("Classify() = nil error, want timestamp parse failure")
	}
}

func TestClassify_FlushIgnoresTimestamp(t *testing.T) {
	// The flush trigger consumes the record without converting the
	// timestamp, so an unparsable createdAt on a flush record is accepted.
	rec := EventRecord{
		SessionID: "s1",
		AgentName: FlushAgent,
		Event:     FlushEvent,
		CreatedAt: "not-a-time",
	}
	cmd, err := Classify(&rec)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if cmd.Kind != CommandFlush {
		t.Errorf("Kind = %v, want CommandFlush", cmd.Kind)
	}
}

func TestParseCreatedAt(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2025-01-01T00:00:00Z", false},
		{"2025-01-01T00:00:00.123Z", false},
		{"2025-01-01T00:00:00+02:00", false},
		{"", true},
		{"2025-01-01", true},
		{"January 1st", true},
	}

	for _, tc := range tests {
		_, err := ParseCreatedAt(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseCreatedAt(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
		}
	}
}
