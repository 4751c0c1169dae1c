package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := New(CodeInvalidInput, "bad mode")
	expected := "[INVALID_INPUT] bad mode"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	wrapped := Wrap(fmt.Errorf("connection refused"), CodeExternalService, "request failed")
	expected = "[EXTERNAL_SERVICE_ERROR] request failed: connection refused"
	if wrapped.Error() != expected {
		t.Errorf("expected %q, got %q", expected, wrapped.Error())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner")
	wrapped := Wrap(inner, CodeDatabase, "query failed")

	if !errors.Is(wrapped, inner) {
		t.Error("expected errors.Is to find inner error")
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := ExternalServiceError("jellyseerr", "request failed", fmt.Errorf("timeout"))

	if err.Context["service"] != "jellyseerr" {
		t.Errorf("expected service context, got %v", err.Context["service"])
	}
}

func TestIsCancelled(t *testing.T) {
	if !IsCancelled(Cancelled("dialog dismissed")) {
		t.Error("expected cancellation to be detected")
	}
	if IsCancelled(New(CodeNotFound, "missing")) {
		t.Error("not-found should not read as cancelled")
	}
	if IsCancelled(fmt.Errorf("plain error")) {
		t.Error("plain error should not read as cancelled")
	}
	// Wrapped cancellations still count
	outer := fmt.Errorf("workflow: %w", Cancelled("empty selection"))
	if !IsCancelled(outer) {
		t.Error("expected wrapped cancellation to be detected")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NotFoundError("movie", "Heat")) {
		t.Error("expected not-found to be detected")
	}
	if IsNotFound(Cancelled("nope")) {
		t.Error("cancelled should not read as not-found")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"app error", New(CodeParse, "bad json"), CodeParse},
		{"wrapped app error", fmt.Errorf("outer: %w", New(CodeConfig, "missing key")), CodeConfig},
		{"plain error", fmt.Errorf("plain"), CodeUnknown},
		{"nil-ish unknown", errors.New(""), CodeUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := GetErrorCode(tc.err); got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(InvalidInputError("unknown mode")) {
		t.Error("expected invalid input to be a validation error")
	}
	if IsValidationError(DatabaseError("boom", fmt.Errorf("x"))) {
		t.Error("database error should not be a validation error")
	}
}
