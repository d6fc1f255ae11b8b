package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so sentinel comparisons
// keep working after a DomainError has been wrapped or copied.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Store and dispatch errors shared by every bounded context
var (
	ErrDbOperationFailure     = NewDomainError("DATABASE_OPERATION_FAILURE", "Database operation failure")
	ErrEntityNotFound         = NewDomainError("ENTITY_NOT_FOUND", "Entity not found")
	ErrEntityAlreadyExists    = NewDomainError("ENTITY_ALREADY_EXISTS", "Entity already exists")
	ErrExternalDispatchFailed = NewDomainError("EXTERNAL_API_REQ_FAILURE", "External API request failure")
)

// FieldViolation describes a single rejected input field
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a request payload fails validation.
// It is kept separate from DomainError so callers can surface per-field details.
type ValidationError struct {
	Violations []FieldViolation
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e.Violations[0].Field + " " + e.Violations[0].Message
}

// NewValidationError creates a validation error from the given violations
func NewValidationError(violations ...FieldViolation) *ValidationError {
	return &ValidationError{Violations: violations}
}
