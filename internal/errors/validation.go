package errors

import (
	"fmt"
	"strings"
)

// ValidationError collects per-field problems found while validating a
// config or request. Field order is preserved so messages are stable.
type ValidationError struct {
	order  []string
	Fields map[string][]string `json:"fields"`
}

// NewValidationError creates an empty validation error
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if len(v.order) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(v.order))
	for _, field := range v.order {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(v.Fields[field], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AddFieldError records a problem for field
func (v *ValidationError) AddFieldError(field, message string) {
	if _, ok := v.Fields[field]; !ok {
		v.order = append(v.order, field)
	}
	v.Fields[field] = append(v.Fields[field], message)
}

// HasErrors returns true if any field failed
func (v *ValidationError) HasErrors() bool {
	return len(v.order) > 0
}

// ToError converts to an InvalidArgument error with the fields as metadata
func (v *ValidationError) ToError() *Error {
	if !v.HasErrors() {
		return nil
	}
	return InvalidArgument(v.Error()).WithMeta("validation_errors", v.Fields)
}

// ValidationBuilder accumulates field errors fluently. Build returns nil when
// nothing was recorded.
type ValidationBuilder struct {
	err *ValidationError
}

// NewValidationBuilder creates a new validation builder
func NewValidationBuilder() *ValidationBuilder {
	return &ValidationBuilder{err: NewValidationError()}
}

// Field adds a validation error for a field
func (vb *ValidationBuilder) Field(field, message string) *ValidationBuilder {
	vb.err.AddFieldError(field, message)
	return vb
}

// Fieldf adds a formatted validation error for a field
func (vb *ValidationBuilder) Fieldf(field, format string, args ...any) *ValidationBuilder {
	return vb.Field(field, fmt.Sprintf(format, args...))
}

// RequiredField adds a required field error
func (vb *ValidationBuilder) RequiredField(field string) *ValidationBuilder {
	return vb.Field(field, "is required")
}

// Build returns the error if there are validation errors, nil otherwise
func (vb *ValidationBuilder) Build() error {
	if vb.err.HasErrors() {
		return vb.err.ToError()
	}
	return nil
}
