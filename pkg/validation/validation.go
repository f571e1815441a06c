// Package validation collects field-level rule violations so a request can be
// rejected with every failing field at once.
package validation

import (
	"errors"
	"strings"
)

// FieldError describes one violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Errors is returned by constructors and request validators. It is never
// returned empty.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation error"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Add records a violation.
func (e *Errors) Add(field, code, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Code: code, Message: message})
}

// Has reports whether field already has a violation.
func (e *Errors) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Err returns nil when nothing was recorded.
func (e *Errors) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// New builds an Errors value with a single violation.
func New(field, code, message string) *Errors {
	v := &Errors{}
	v.Add(field, code, message)
	return v
}

// As extracts the collected violations from err.
func As(err error) (*Errors, bool) {
	var v *Errors
	if errors.As(err, &v) && v != nil {
		return v, true
	}
	return nil, false
}
