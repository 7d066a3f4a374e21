// Package api defines the wire-level DTOs of the docmill gateway: the error
// envelope returned on every failure, including the throttling payload that
// carries the retry hint for rate-limited clients.
package api

import "fmt"

// ErrorType represents the category of an API error.
type ErrorType string

const (
	ErrorTypeServerError     ErrorType = "server_error"
	ErrorTypeInvalidRequest  ErrorType = "invalid_request"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeTooManyRequests ErrorType = "too_many_requests"
)

// APIError represents a structured API error with type, code, and message.
// Rate-limit errors carry the limit type and retry hint so clients can back
// off precisely.
type APIError struct {
	Type              ErrorType `json:"type"`
	Code              string    `json:"code,omitempty"`
	Message           string    `json:"message"`
	LimitType         string    `json:"limit_type,omitempty"`
	RetryAfterSeconds int64     `json:"retry_after_seconds,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError for JSON serialization as the top-level error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewInvalidRequestError creates an APIError for invalid request parameters.
func NewInvalidRequestError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for resources that cannot be found.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewServerError creates an APIError for internal server errors.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}

// NewTooManyRequestsError creates an APIError for a rate-limit denial.
func NewTooManyRequestsError(message, limitType string, retryAfterSeconds int64) *APIError {
	return &APIError{
		Type:              ErrorTypeTooManyRequests,
		Message:           message,
		LimitType:         limitType,
		RetryAfterSeconds: retryAfterSeconds,
	}
}
