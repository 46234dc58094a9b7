package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParsing      ErrorType = "PARSING"
	ErrTypeClassify     ErrorType = "CLASSIFY"
	ErrTypeMissingField ErrorType = "MISSING_FIELD"
	ErrTypeStorage      ErrorType = "STORAGE"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeEmptyPanel   ErrorType = "EMPTY_PANEL"
	ErrTypeConfig       ErrorType = "CONFIG"
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

// IsType reports whether err is (or wraps) an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Helper functions for common error types

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewClassifyError marks a file whose kind could not be determined. The
// scan records it and moves on; nothing is retried.
func NewClassifyError(filename string) *AppError {
	return NewAppError(ErrTypeClassify, fmt.Sprintf("cannot determine data type of %s", filename), nil)
}

// NewMissingFieldError marks a table where a required canonical field
// (date or price) could not be mapped to any column.
func NewMissingFieldError(field, identifier string) *AppError {
	return NewAppError(ErrTypeMissingField, fmt.Sprintf("no %s field found in %s", field, identifier), nil)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewEmptyPanelError signals that no series survived normalization, so
// there is nothing to build a panel from. Fatal to the run.
func NewEmptyPanelError() *AppError {
	return NewAppError(ErrTypeEmptyPanel, "no series were normalized, panel is empty", nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
