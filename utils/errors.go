package utils

import (
	"errors"
	"net/http"
)

// AppError is the typed failure returned by services and translated by controllers.
type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

func (appErr *AppError) Unwrap() error {
	return appErr.Origin
}

// Standard error codes for the application
const (
	ErrValidation   = "VALIDATION"
	ErrConflict     = "CONFLICT"
	ErrNotFound     = "NOT_FOUND"
	ErrUnauthorized = "UNAUTHORIZED"
	ErrMissingToken = "MISSING_TOKEN"
	ErrInvalidToken = "INVALID_TOKEN"
	ErrPayment      = "PAYMENT"
	ErrInternal     = "INTERNAL"
)

// NewAppError builds an AppError with the given code.
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: ErrValidation, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: ErrConflict, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: ErrNotFound, Message: message}
}

// NewInternalError wraps a store or infrastructure failure; the message stays server-side.
func NewInternalError(message string, origin error) *AppError {
	return &AppError{Code: ErrInternal, Message: message, Origin: origin}
}

// IsErrorCode reports whether err carries an AppError with the given code.
func IsErrorCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(code string) int {
	switch code {
	case ErrValidation, ErrConflict:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUnauthorized, ErrMissingToken:
		return http.StatusUnauthorized
	case ErrInvalidToken:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
