package provider

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapError_InvalidURL(t *testing.T) {
	err := fmt.Errorf("%w: https://invalid.com", ErrInvalidURL)
	wrapped := WrapError(err)

	userErr, ok := wrapped.(*UserError)
	if !ok {
		t.Fatalf("WrapError() returned %T, want *UserError", wrapped)
	}

	if userErr.Message != "Invalid job URL" {
		t.Errorf("Message = %q, want %q", userErr.Message, "Invalid job URL")
	}

	for _, want := range []string{"Supported formats", "buildkite.com", "github.com", "local:"} {
		if !strings.Contains(userErr.Hint, want) {
			t.Errorf("Hint should contain %q, got %q", want, userErr.Hint)
		}
	}

	if !errors.Is(wrapped, ErrInvalidURL) {
		t.Error("errors.Is(wrapped, ErrInvalidURL) = false, want true")
	}
}

func TestWrapError_Sentinels(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
		wantHint    string
	}{
		{
			name:        "ErrAuthFailed sentinel",
			err:         ErrAuthFailed,
			wantMessage: "Authentication failed",
			wantHint:    "BUILDKITE_API_TOKEN",
		},
		{
			name:        "status error 401",
			err:         StatusError("Buildkite", 401, "unauthorized"),
			wantMessage: "Authentication failed",
			wantHint:    "GITHUB_TOKEN",
		},
		{
			name:        "wrapped ErrJobNotFound",
			err:         fmt.Errorf("listing builds: %w", ErrJobNotFound),
			wantMessage: "Job not found",
			wantHint:    "job URL is correct",
		},
		{
			name:        "host unavailable",
			err:         fmt.Errorf("%w: dial tcp: timeout", ErrHostUnavailable),
			wantMessage: "Could not read the job's run history",
			wantHint:    "Retry later",
		},
		{
			name:        "host unavailable caused by auth keeps the auth hint",
			err:         fmt.Errorf("%w: %w", ErrHostUnavailable, ErrAuthFailed),
			wantMessage: "Authentication failed",
			wantHint:    "API token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userErr, ok := WrapError(tt.err).(*UserError)
			if !ok {
				t.Fatalf("WrapError() did not return *UserError")
			}
			if userErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", userErr.Message, tt.wantMessage)
			}
			if !strings.Contains(userErr.Hint, tt.wantHint) {
				t.Errorf("Hint should contain %q, got %q", tt.wantHint, userErr.Hint)
			}
			if !errors.Is(userErr, tt.err) && userErr.Err != tt.err {
				t.Errorf("UserError should wrap the original error")
			}
		})
	}
}

func TestWrapError_OtherErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "rate limited", err: ErrRateLimited},
		{name: "generic error", err: errors.New("something went wrong")},
		{name: "500 status", err: StatusError("GitHub", 500, "boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapError(tt.err)
			if wrapped != tt.err {
				t.Errorf("WrapError() = %v, want original error %v", wrapped, tt.err)
			}
		})
	}
}

func TestWrapError_NilError(t *testing.T) {
	if wrapped := WrapError(nil); wrapped != nil {
		t.Errorf("WrapError(nil) = %v, want nil", wrapped)
	}
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{401, ErrAuthFailed},
		{403, ErrAuthFailed},
		{404, ErrJobNotFound},
		{429, ErrRateLimited},
	}

	for _, tt := range tests {
		err := StatusError("Buildkite", tt.code, "body")
		if !errors.Is(err, tt.want) {
			t.Errorf("StatusError(%d) = %v, want %v", tt.code, err, tt.want)
		}
		if !strings.Contains(err.Error(), "body") {
			t.Errorf("StatusError(%d) should include response body, got %q", tt.code, err.Error())
		}
	}

	err := StatusError("Buildkite", 502, "bad gateway")
	for _, sentinel := range []error{ErrAuthFailed, ErrJobNotFound, ErrRateLimited} {
		if errors.Is(err, sentinel) {
			t.Errorf("StatusError(502) should not match %v", sentinel)
		}
	}
}

func TestUserError_Error(t *testing.T) {
	userErr := &UserError{
		Message: "Something went wrong",
		Hint:    "Try doing this instead",
		Err:     errors.New("original error"),
	}

	got := userErr.Error()
	msgIdx := strings.Index(got, "Something went wrong")
	hintIdx := strings.Index(got, "Hint: Try doing this instead")
	errIdx := strings.Index(got, "Details: original error")

	if msgIdx != 0 {
		t.Errorf("Message should be at start, found at index %d", msgIdx)
	}
	if hintIdx <= msgIdx {
		t.Errorf("Hint should come after Message, got hint at %d", hintIdx)
	}
	if errIdx <= hintIdx {
		t.Errorf("Details should come after Hint, got details at %d, hint at %d", errIdx, hintIdx)
	}

	if got := (&UserError{Message: "only"}).Error(); got != "only" {
		t.Errorf("Error() = %q, want %q", got, "only")
	}
}

func TestUserError_Unwrap(t *testing.T) {
	userErr := &UserError{Message: "Something went wrong", Err: ErrAuthFailed}
	if !errors.Is(userErr, ErrAuthFailed) {
		t.Error("errors.Is(userErr, ErrAuthFailed) = false, want true")
	}
	if (&UserError{}).Unwrap() != nil {
		t.Error("Unwrap() on empty UserError should be nil")
	}
}
