// Package errors provides structured error handling for the application
// Following enterprise patterns for error management and observability
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents an error code
type ErrorCode string

// Error codes for the planning pipeline and its API boundary
const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Server errors (5xx)
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// Pipeline error taxonomy
	CodeRetrievalFailed         ErrorCode = "RETRIEVAL_FAILED"
	CodeGenerationProviderError ErrorCode = "GENERATION_PROVIDER_ERROR"
	CodeGenerationParseError    ErrorCode = "GENERATION_PARSE_ERROR"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeServiceUnavailable, CodeGenerationProviderError:
		return http.StatusServiceUnavailable
	case CodeGenerationParseError, CodeRetrievalFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s not found", resource), "")
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "validation failed", details)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	return NewAppError(CodeInternal, message, "")
}

// NewGenerationProviderError wraps a provider transport or configuration
// failure. Fatal for the request; never silently degraded to an empty plan.
func NewGenerationProviderError(cause error) *AppError {
	return NewAppError(CodeGenerationProviderError, "text generation provider failed", "").WithCause(cause)
}

// NewGenerationParseError wraps unparseable generator output. The raw
// offending text is retained in metadata for diagnostics.
func NewGenerationParseError(cause error, raw string) *AppError {
	return NewAppError(CodeGenerationParseError, "generator output was not a valid plan", "").
		WithCause(cause).
		WithMetadata("raw_response", raw)
}

// NewRetrievalFailedError wraps a candidate store failure.
func NewRetrievalFailedError(cause error) *AppError {
	return NewAppError(CodeRetrievalFailed, "candidate retrieval failed", "").WithCause(cause)
}
