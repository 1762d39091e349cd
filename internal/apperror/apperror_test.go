package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound(CodeUserNotFound, "user"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed(CodeRegistration, "Username must be at least 3 characters"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict(CodeRegistration, "Username already exists"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized(CodeAuthentication, "Invalid username or password"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "Unavailable wraps ErrUnavailable",
			err:       Unavailable("Worker agent is not responding"),
			target:    ErrUnavailable,
			wantMatch: true,
		},
		{
			name:      "Upstream wraps ErrUpstream",
			err:       Upstream("Analysis failed"),
			target:    ErrUpstream,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound(CodeUserNotFound, "user"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Unavailable does NOT match ErrUpstream",
			err:       Unavailable("timeout"),
			target:    ErrUpstream,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessagesAndCodes(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
		wantCode    string
	}{
		{
			name:        "NotFound formats resource",
			err:         NotFound(CodeUserNotFound, "User"),
			wantMessage: "User not found",
			wantCode:    CodeUserNotFound,
		},
		{
			name:        "ValidationFailed keeps custom message",
			err:         ValidationFailed(CodeRegistration, "Password must be at least 6 characters"),
			wantMessage: "Password must be at least 6 characters",
			wantCode:    CodeRegistration,
		},
		{
			name:        "Unavailable carries worker agent code",
			err:         Unavailable("Worker agent is not responding"),
			wantMessage: "Worker agent is not responding",
			wantCode:    CodeWorkerAgent,
		},
		{
			name:        "Upstream carries analysis code",
			err:         Upstream("model blew up"),
			wantMessage: "model blew up",
			wantCode:    CodeAnalysis,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound(CodeUserNotFound, "user")
	if err.Unwrap() != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), ErrNotFound)
	}
}
