package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  Conflict("time slot conflicts with an existing booking"),
			want: "CONFLICT: time slot conflicts with an existing booking",
		},
		{
			name: "with cause",
			err:  Internal("failed to persist booking", fmt.Errorf("connection refused")),
			want: "INTERNAL_ERROR: failed to persist booking (caused by: connection refused)",
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

func TestConstructors_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"conflict", Conflict("overlap"), CodeConflict, http.StatusConflict},
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Booking", "42"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad booking", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad date"), CodeInvalidInput, http.StatusBadRequest},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("store timed out"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("bookings"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Booking", "abc123")

	if err.Details["resource"] != "Booking" {
		t.Errorf("Details[resource] = %v, want Booking", err.Details["resource"])
	}
	if err.Details["id"] != "abc123" {
		t.Errorf("Details[id] = %v, want abc123", err.Details["id"])
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("driver: bad connection")
	err := Internal("failed to load bookings", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestAsAppError(t *testing.T) {
	t.Run("passes through AppError", func(t *testing.T) {
		original := Conflict("overlap")
		if got := AsAppError(original); got != original {
			t.Errorf("AsAppError returned %v, want the original error", got)
		}
	})

	t.Run("wraps unknown errors as internal", func(t *testing.T) {
		got := AsAppError(fmt.Errorf("some driver detail"))
		if got.Code != CodeInternal {
			t.Errorf("Code = %q, want %q", got.Code, CodeInternal)
		}
		if strings.Contains(got.Message, "driver detail") {
			t.Error("internal detail must not leak into the message")
		}
	})
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(Conflict("overlap")) {
		t.Error("IsAppError(AppError) = false, want true")
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("IsAppError(plain error) = true, want false")
	}
}

func TestWithDetails(t *testing.T) {
	err := Validation("booking validation failed", nil).WithDetails(map[string]any{
		"field": "startTime",
	})
	if err.Details["field"] != "startTime" {
		t.Errorf("Details[field] = %v, want startTime", err.Details["field"])
	}
}
