package arguments

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownTool is returned by Parse for names without a validator.
var ErrUnknownTool = errors.New("unknown tool")

// FieldError describes one violated argument.
type FieldError struct {
	// Field is the argument name.
	Field string
	// Problem is a human-readable description.
	Problem string
}

// ValidationError lists every offending argument of a tool call.
type ValidationError struct {
	// Tool is the tool being validated.
	Tool string
	// Fields holds violations sorted by field name.
	Fields []FieldError
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Details())
}

// Details joins field violations into one line.
func (e *ValidationError) Details() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Problem)
	}
	return strings.Join(parts, "; ")
}

// FieldNames returns the offending field names.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

func newValidationError(tool string, fields []FieldError) *ValidationError {
	sorted := append([]FieldError(nil), fields...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Field < sorted[j].Field
	})
	return &ValidationError{Tool: tool, Fields: sorted}
}
