package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeValidation indicates invalid configuration or input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeUpstreamStatus indicates ArgoCD answered with a non-2xx status
	ErrorTypeUpstreamStatus ErrorType = "upstream_status"
	// ErrorTypeUpstreamTransport indicates the request never got a response
	// (connection refused, timeout, DNS, TLS)
	ErrorTypeUpstreamTransport ErrorType = "upstream_transport"
	// ErrorTypeUpstreamUnexpected indicates any other failure while reading
	// or decoding the upstream response
	ErrorTypeUpstreamUnexpected ErrorType = "upstream_unexpected"
	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of the same type
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return e.Type == appErr.Type
	}
	return false
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Details: details,
	}
}

// NewUpstreamStatusError creates an error for a non-2xx upstream response.
// Details carry "status" and "body".
func NewUpstreamStatusError(message string, status int, body string) *AppError {
	return &AppError{
		Type:    ErrorTypeUpstreamStatus,
		Message: message,
		Cause:   fmt.Errorf("status code: %d", status),
		Details: map[string]interface{}{
			"status": status,
			"body":   body,
		},
	}
}

// NewUpstreamTransportError creates a new transport-level upstream error
func NewUpstreamTransportError(message string, cause error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeUpstreamTransport,
		Message: message,
		Cause:   cause,
		Details: details,
	}
}

// NewUpstreamUnexpectedError creates a new error for any other upstream failure
func NewUpstreamUnexpectedError(message string, cause error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeUpstreamUnexpected,
		Message: message,
		Cause:   cause,
		Details: details,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Cause:   cause,
	}
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsUpstreamStatusError checks if the error is a non-2xx upstream response
func IsUpstreamStatusError(err error) bool {
	return isType(err, ErrorTypeUpstreamStatus)
}

// IsUpstreamTransportError checks if the error is a transport failure
func IsUpstreamTransportError(err error) bool {
	return isType(err, ErrorTypeUpstreamTransport)
}

// IsUpstreamUnexpectedError checks if the error is an unexpected upstream failure
func IsUpstreamUnexpectedError(err error) bool {
	return isType(err, ErrorTypeUpstreamUnexpected)
}

// GetErrorType returns the ErrorType of an AppError, or "" for any other error
func GetErrorType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// GetErrorDetails extracts details from an AppError
func GetErrorDetails(err error) map[string]interface{} {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}
