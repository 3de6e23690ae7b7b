package model

// The flush trigger is a reserved event signature carried on ordinary
// EventRecord fields, not a distinct wire message type. Both values are
// matched exactly, case-sensitive.
const (
	FlushAgent = "analysis-agent"
	FlushEvent = "Flush"
)

// CommandKind discriminates the two things an inbound record can ask for.
type CommandKind int

const (
	CommandAppend CommandKind = iota
	CommandFlush
)

// Command is the tagged variant an EventRecord resolves to immediately
// after validation: either append one StoredEvent to the session's log, or
// flush the session. Keeping the trigger detection here means it lives in
// exactly one place instead of being string-matched in every handler.
type Command struct {
	Kind      CommandKind
	SessionID string
	Event     StoredEvent // populated only for CommandAppend
}

// Classify resolves a validated EventRecord into a Command. For append
// commands the wire timestamp is converted here; an unparsable createdAt is
// returned as an error and surfaced like any other local record failure.
func Classify(r *EventRecord) (Command, error) {
	if r.AgentName == FlushAgent && r.Event == FlushEvent {
		return Command{Kind: CommandFlush, SessionID: r.SessionID}, nil
	}

	at, err := ParseCreatedAt(r.CreatedAt)
	if err != nil {
		return Command{}, err
	}
	return Command{
		Kind:      CommandAppend,
		SessionID: r.SessionID,
		Event: StoredEvent{
			CreatedAt: at,
			Source:    r.AgentName,
			Event:     r.Event,
		},
	}, nil
}
