package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...any) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Error codes used across the sync and pricing components
const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeReferenceMissing = "REFERENCE_MISSING"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInvalidState     = "INVALID_STATE"
)

// NewValidationError creates a VALIDATION_ERROR domain error
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainErrorf(CodeValidationError, format, args...)
}

// NewReferenceError creates a REFERENCE_MISSING domain error. It marks a
// hard dependency whose target does not exist in the local store.
func NewReferenceError(format string, args ...any) *DomainError {
	return NewDomainErrorf(CodeReferenceMissing, format, args...)
}

// NewNotFoundError creates a NOT_FOUND domain error with a specific message
func NewNotFoundError(format string, args ...any) *DomainError {
	return NewDomainErrorf(CodeNotFound, format, args...)
}
