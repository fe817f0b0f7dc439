package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    int
	}{
		{ValidationError, http.StatusBadRequest},
		{AuthError, http.StatusUnauthorized},
		{ForbiddenError, http.StatusForbidden},
		{NotFoundError, http.StatusNotFound},
		{ConflictError, http.StatusBadRequest},
		{InternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.errType.String(), func(t *testing.T) {
			err := New(tt.errType, "msg", nil)
			if got := err.StatusCode(); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveHidesInternalDetail(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:3306: connection refused")

	for _, err := range []error{cause, NewInternalError("loading events", cause)} {
		status, resp, internal := Resolve(err)
		if status != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", status)
		}
		if resp.Message != "internal server error" {
			t.Errorf("message = %q, want generic message", resp.Message)
		}
		if !internal {
			t.Error("expected internal = true")
		}
	}
}

func TestResolveWrapped(t *testing.T) {
	notFound := NewNotFoundError("event not found", nil)
	wrapped := fmt.Errorf("handler: %w", notFound)

	status, resp, internal := Resolve(wrapped)
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if resp.Message != "event not found" {
		t.Errorf("message = %q", resp.Message)
	}
	if internal {
		t.Error("expected internal = false")
	}
	if !Is(wrapped, NotFoundError) {
		t.Error("Is() should see through wrapping")
	}
	if !errors.Is(wrapped, notFound) {
		t.Error("errors.Is should match the sentinel")
	}
}

func TestErrorIncludesCause(t *testing.T) {
	err := NewInternalError("saving user", errors.New("boom"))
	if err.Error() != "saving user: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if errors.Unwrap(err).Error() != "boom" {
		t.Error("Unwrap() should return the cause")
	}
}
