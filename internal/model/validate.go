package model

import "strings"

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateRecord checks that all four mandatory EventRecord fields are
// present and non-empty. It returns a *ValidationError naming every missing
// field, or nil if the record is valid. Parseability of CreatedAt is not
// checked here; that surfaces when the timestamp is converted.
func ValidateRecord(r *EventRecord) error {
	var ve ValidationError

	if strings.TrimSpace(r.SessionID) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "sessionId", Message: "is required"})
	}
	if strings.TrimSpace(r.AgentName) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "agentName", Message: "is required"})
	}
	if strings.TrimSpace(r.Event) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "event", Message: "is required"})
	}
	if strings.TrimSpace(r.CreatedAt) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "createdAt", Message: "is required"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
