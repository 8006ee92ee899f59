package provider

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAuthFailed      = errors.New("authentication failed")
	ErrJobNotFound     = errors.New("job not found")
	ErrRateLimited     = errors.New("rate limited")
	ErrHostUnavailable = errors.New("CI host unavailable")
)

// UserError wraps errors with user-friendly messages
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// StatusError maps an unexpected HTTP response to a sentinel error.
// body is included verbatim for debugging.
func StatusError(host string, code int, body string) error {
	var sentinel error
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = ErrAuthFailed
	case http.StatusNotFound:
		sentinel = ErrJobNotFound
	case http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	default:
		return fmt.Errorf("%s API error %d: %s", host, code, body)
	}
	return fmt.Errorf("%w: %s API error %d: %s", sentinel, host, code, body)
}

// WrapError converts API errors to user-friendly messages
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrInvalidURL) {
		return &UserError{
			Message: "Invalid job URL",
			Hint:    "Supported formats:\n  - https://buildkite.com/org/pipeline\n  - https://github.com/owner/repo/actions/workflows/ci.yml\n  - local:job-name",
			Err:     err,
		}
	}

	if errors.Is(err, ErrAuthFailed) {
		return &UserError{
			Message: "Authentication failed",
			Hint:    "Check that your API token is valid and has the correct permissions.\n  - Buildkite: Set BUILDKITE_API_TOKEN\n  - GitHub: Set GITHUB_TOKEN",
			Err:     err,
		}
	}

	if errors.Is(err, ErrJobNotFound) {
		return &UserError{
			Message: "Job not found",
			Hint:    "Check that the job URL is correct and you have access to it.",
			Err:     err,
		}
	}

	if errors.Is(err, ErrHostUnavailable) {
		return &UserError{
			Message: "Could not read the job's run history",
			Hint:    "The CI host did not answer. Retry later or check network access.",
			Err:     err,
		}
	}

	return err
}
