// Package apperror defines the application error taxonomy and its mapping to
// HTTP status codes. Only Message is ever shown to API clients; Err carries the
// underlying cause for logs.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an AppError.
type ErrorType int

const (
	// InternalError represents storage, hashing or other unexpected failures.
	InternalError ErrorType = iota
	// ValidationError represents missing or malformed input.
	ValidationError
	// AuthError represents bad credentials or a missing/invalid token.
	AuthError
	// ForbiddenError represents an authenticated caller with the wrong role.
	ForbiddenError
	// NotFoundError represents an absent event, registration or user.
	NotFoundError
	// ConflictError represents a duplicate username or duplicate registration.
	ConflictError
)

// String returns a short name for the error type, used as a log field.
func (t ErrorType) String() string {
	switch t {
	case ValidationError:
		return "validation"
	case AuthError:
		return "auth"
	case ForbiddenError:
		return "forbidden"
	case NotFoundError:
		return "not_found"
	case ConflictError:
		return "conflict"
	default:
		return "internal"
	}
}

// AppError is an error with a type and a client-safe message.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError:
		return http.StatusBadRequest
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ConflictError:
		// Mobile clients expect duplicates as 400.
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// New creates an AppError of the given type.
func New(errType ErrorType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string, err error) *AppError {
	return New(ValidationError, message, err)
}

// NewAuthError creates an AuthError.
func NewAuthError(message string, err error) *AppError {
	return New(AuthError, message, err)
}

// NewForbiddenError creates a ForbiddenError.
func NewForbiddenError(message string, err error) *AppError {
	return New(ForbiddenError, message, err)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(message string, err error) *AppError {
	return New(NotFoundError, message, err)
}

// NewConflictError creates a ConflictError.
func NewConflictError(message string, err error) *AppError {
	return New(ConflictError, message, err)
}

// NewInternalError creates an InternalError.
func NewInternalError(message string, err error) *AppError {
	return New(InternalError, message, err)
}

// Response is the JSON error envelope returned to clients.
type Response struct {
	Message string `json:"message"`
}

// Resolve maps any error to a status code and a client-safe response. Errors
// that are not AppErrors, and AppErrors of type InternalError, produce a
// generic message. The second return reports whether the error is internal
// and should be logged.
func Resolve(err error) (int, Response, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Type != InternalError {
		return appErr.StatusCode(), Response{Message: appErr.Message}, false
	}
	return http.StatusInternalServerError, Response{Message: "internal server error"}, true
}

// Is reports whether err is an AppError of the given type.
func Is(err error, errType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errType
}
