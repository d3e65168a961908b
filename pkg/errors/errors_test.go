package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed")

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error")

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped")

	unwrapped := errors.Unwrap(appErr)
	if unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "abc123")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.Details["id"] != "abc123" {
		t.Errorf("expected id detail 'abc123', got %v", err.Details["id"])
	}
}

func TestHasCode(t *testing.T) {
	err := NotFound("User")
	wrapped := fmt.Errorf("handler failed: %w", err)

	if !HasCode(wrapped, CodeNotFound) {
		t.Errorf("expected HasCode to see NOT_FOUND through wrapping")
	}
	if HasCode(wrapped, CodeConflict) {
		t.Errorf("did not expect CONFLICT")
	}
	if HasCode(errors.New("plain"), CodeNotFound) {
		t.Errorf("plain errors have no code")
	}
}

func TestIsPermanent(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		permanent bool
	}{
		{"malformed payload", MalformedPayload("identity.created", errors.New("bad json")), true},
		{"validation", Validation("invalid input", nil), true},
		{"not found", NotFound("Show"), true},
		{"conflict", Conflict("user already exists"), true},
		{"internal", Internal("db down", errors.New("timeout")), false},
		{"plain error", errors.New("whatever"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPermanent(tt.err); got != tt.permanent {
				t.Errorf("IsPermanent() = %v, want %v", got, tt.permanent)
			}
		})
	}
}

func TestAsAppError(t *testing.T) {
	plain := errors.New("boom")
	appErr := AsAppError(plain)

	if appErr.Code != CodeInternal {
		t.Errorf("expected plain errors to coerce to INTERNAL_ERROR, got %s", appErr.Code)
	}
	if appErr.Err != plain {
		t.Errorf("expected coerced error to keep the cause")
	}

	original := Conflict("already exists")
	if AsAppError(original) != original {
		t.Errorf("expected AppError to pass through unchanged")
	}
}
