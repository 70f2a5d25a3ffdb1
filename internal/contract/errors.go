package contract

import (
	"fmt"
	"strings"
)

// FieldError describes a single field that failed contract validation.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned when an orchestrator payload does not match its
// declared contract. It carries every failing field so drift shows up in logs
// as one diagnostic rather than a trickle.
type ValidationError struct {
	Resource string
	Fields   []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: payload does not match contract", e.Resource)
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Resource, strings.Join(parts, "; "))
}

// addf appends a field error.
func (e *ValidationError) addf(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// orNil returns the error, or nil when no fields failed.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
