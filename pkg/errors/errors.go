// pkg/errors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Error types
const (
	ErrValidation      = "VALIDATION_ERROR"
	ErrNotFound        = "NOT_FOUND"
	ErrSessionNotFound = "SESSION_NOT_FOUND"
	ErrInvalidStep     = "INVALID_STEP"
	ErrInvalidAPIKey   = "INVALID_API_KEY"
	ErrInvalidToken    = "INVALID_CAPTURE_TOKEN"
	ErrDocumentType    = "DOCUMENT_TYPE_NOT_ALLOWED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrForbidden       = "FORBIDDEN"
	ErrConflict        = "CONFLICT"
	ErrInternalServer  = "INTERNAL_SERVER_ERROR"
	ErrBadRequest      = "BAD_REQUEST"
	ErrUpstreamFailure = "UPSTREAM_FAILURE"
)

// AppError represents a custom application error
type AppError struct {
	Type       string `json:"type"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewAppError creates a new AppError
func NewAppError(errorType string, statusCode int, message string, details ...string) *AppError {
	var detail string
	if len(details) > 0 {
		detail = details[0]
	}

	return &AppError{
		Type:       errorType,
		StatusCode: statusCode,
		Message:    message,
		Details:    detail,
	}
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetErrorType extracts the error type from an error
func GetErrorType(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// GetStatusCode extracts the status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return 500 // Default to internal server error
}

// Helper functions to create common errors
func NewSessionNotFoundError() *AppError {
	return NewAppError(ErrSessionNotFound, 404, "Verification session not found")
}

func NewInvalidStepError(current, attempted string) *AppError {
	return NewAppError(ErrInvalidStep, 409,
		fmt.Sprintf("session is at step %q, cannot perform %q", current, attempted))
}

func NewInvalidAPIKeyError() *AppError {
	return NewAppError(ErrInvalidAPIKey, 401, "Invalid or inactive API key")
}

func NewInvalidCaptureTokenError() *AppError {
	return NewAppError(ErrInvalidToken, 401, "Invalid or expired capture token")
}

func NewDocumentTypeError(code string) *AppError {
	return NewAppError(ErrDocumentType, 400,
		fmt.Sprintf("document type %q is not enabled", code))
}
