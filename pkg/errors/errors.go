package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeExtraction indicates a single entity extraction failed
	ErrorTypeExtraction ErrorType = "EXTRACTION"

	// ErrorTypeTimeout indicates an entity extraction exceeded its time budget
	ErrorTypeTimeout ErrorType = "TIMEOUT"

	// ErrorTypeAssembly indicates an aggregate could not be assembled
	ErrorTypeAssembly ErrorType = "ASSEMBLY"

	// ErrorTypePersistence indicates an aggregate write failed
	ErrorTypePersistence ErrorType = "PERSISTENCE"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewExtractionError creates a new extraction error
func NewExtractionError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExtraction,
		Message: message,
		Err:     err,
	}
}

// NewTimeoutError creates a new extraction timeout error
func NewTimeoutError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: message,
	}
}

// NewAssemblyError creates a new aggregate assembly error
func NewAssemblyError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeAssembly,
		Message: message,
	}
}

// NewPersistenceError creates a new persistence error
func NewPersistenceError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypePersistence,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// IsErrorType reports whether err is an AppError of the given type,
// unwrapping as needed.
func IsErrorType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}
