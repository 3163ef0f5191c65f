package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports every missing or invalid field of an entity in a
// single pass. Fields maps field name to the reason it was rejected.
type ValidationError struct {
	Entity string
	Fields map[string]string
}

// NewValidationError creates an empty validation error for an entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{Entity: entity, Fields: make(map[string]string)}
}

// Add records a rejected field and its reason.
func (e *ValidationError) Add(field, reason string) {
	e.Fields[field] = reason
}

// HasErrors returns true if any field was rejected.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return fmt.Sprintf("%s validation failed: %s", e.Entity, strings.Join(parts, "; "))
}

// TransitionError reports an illegal invoice status transition attempt.
// The invoice is left unchanged when one is returned.
type TransitionError struct {
	From InvoiceStatus
	To   InvoiceStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal status transition: %s -> %s", e.From, e.To)
}
