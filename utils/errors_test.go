package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorToHTTPStatus(t *testing.T) {
	tests := map[string]int{
		ErrValidation:   http.StatusBadRequest,
		ErrConflict:     http.StatusBadRequest,
		ErrNotFound:     http.StatusNotFound,
		ErrUnauthorized: http.StatusUnauthorized,
		ErrMissingToken: http.StatusUnauthorized,
		ErrInvalidToken: http.StatusForbidden,
		ErrPayment:      http.StatusInternalServerError,
		ErrInternal:     http.StatusInternalServerError,
		"SOMETHING":     http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := AppErrorToHTTPStatus(code); got != want {
			t.Errorf("AppErrorToHTTPStatus(%s) = %d, want %d", code, got, want)
		}
	}
}

func TestAppError_unwrap(t *testing.T) {
	origin := errors.New("disk on fire")
	err := fmt.Errorf("outer: %w", NewInternalError("failed to save", origin))

	if !errors.Is(err, origin) {
		t.Error("errors.Is did not find the origin")
	}
	if !IsErrorCode(err, ErrInternal) {
		t.Error("IsErrorCode did not see through the wrapping")
	}
	if got, want := NewInternalError("failed to save", origin).Error(), "failed to save: disk on fire"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
