package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeInputLoad         ErrorType = "INPUT_LOAD"
	ErrTypeInvalidRowDate    ErrorType = "INVALID_ROW_DATE"
	ErrTypeMalformedDuration ErrorType = "MALFORMED_DURATION"
	ErrTypeStorage           ErrorType = "STORAGE"
	ErrTypeValidation        ErrorType = "VALIDATION"
	ErrTypeNotFound          ErrorType = "NOT_FOUND"
	ErrTypeConfig            ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err, or any error it wraps, is an AppError of type t.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// NewInputLoadError reports a timecard source that could not be opened or parsed.
// Fatal: no analysis runs and no output is written.
func NewInputLoadError(message string, cause error) *AppError {
	return NewAppError(ErrTypeInputLoad, message, cause)
}

// NewInvalidRowDateError reports a row whose Time or Time Out value is not a
// date serial. The row is skipped.
func NewInvalidRowDateError(employee, field, value string) *AppError {
	return NewAppError(ErrTypeInvalidRowDate,
		fmt.Sprintf("invalid date for employee %s", employee), nil).
		WithContext("field", field).
		WithContext("value", value)
}

// NewMalformedDurationError reports a duration cell that is not H:MM text.
// Only the long-shift check is skipped for the row.
func NewMalformedDurationError(employee, value string) *AppError {
	return NewAppError(ErrTypeMalformedDuration,
		fmt.Sprintf("malformed shift duration for employee %s", employee), nil).
		WithContext("value", value)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
