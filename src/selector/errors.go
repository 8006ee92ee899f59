package selector

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is matched by every *ConfigError.
	ErrInvalidConfig = errors.New("invalid selection configuration")
	// ErrUnknownKind reports a selector or filter kind with no registration.
	ErrUnknownKind = errors.New("unknown kind")
)

// ConfigError reports a selector or filter built from invalid parameters.
// It is raised at construction time, never while selecting.
type ConfigError struct {
	Kind   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("invalid %s configuration: %s", e.Kind, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidConfig}
	}
	return []error{ErrInvalidConfig, e.Err}
}

func configErrorf(kind, format string, args ...any) error {
	return &ConfigError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
