package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorMessageFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  Conflict("Seat is already locked"),
			want: "CONFLICT: Seat is already locked",
		},
		{
			name: "with cause",
			err:  Internal("Failed to write booking", errors.New("connection reset")),
			want: "INTERNAL_ERROR: Failed to write booking (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstructorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code string
		want int
	}{
		{"not found", NotFound("Seat"), CodeNotFound, http.StatusNotFound},
		{"conflict", Conflict("locked"), CodeConflict, http.StatusConflict},
		{"invalid argument", InvalidArgument("bad outcome"), CodeInvalidArgument, http.StatusBadRequest},
		{"validation", Validation("bad seat map", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"store unavailable", StoreUnavailable(errors.New("dial tcp: refused")), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if got := tt.err.StatusCode(); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := StoreUnavailable(cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestAsAppErrorPassthrough(t *testing.T) {
	original := NotFoundWithID("Seat", "A1")
	wrapped := fmt.Errorf("query availability: %w", original)

	got := AsAppError(wrapped)
	if got != original {
		t.Errorf("AsAppError should unwrap to the original *AppError, got %v", got)
	}
	if got.Details["id"] != "A1" {
		t.Errorf("expected details to carry the seat id, got %v", got.Details)
	}
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	raw := errors.New("something low level")

	got := AsAppError(raw)
	if got.Code != CodeInternal {
		t.Errorf("Code = %q, want %q", got.Code, CodeInternal)
	}
	if got.Message != "Internal server error" {
		t.Errorf("raw error text must not leak into the message, got %q", got.Message)
	}
	if !errors.Is(got, raw) {
		t.Error("wrapped error should retain the cause")
	}
}

func TestWithDetails(t *testing.T) {
	err := Conflict("locked").WithDetails(map[string]any{"seat_id": "B7"})
	if err.Details["seat_id"] != "B7" {
		t.Errorf("Details = %v, want seat_id B7", err.Details)
	}
}
