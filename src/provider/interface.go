package provider

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

var (
	ErrInvalidURL      = errors.New("invalid job URL")
	ErrProviderUnknown = errors.New("unknown CI provider")
)

// Provider defines the interface for CI/CD platform integrations
type Provider interface {
	// Name returns the provider name (e.g., "buildkite", "github")
	Name() string

	// ParseURL extracts a job reference from URL
	ParseURL(url string) (*JobRef, error)

	// ListRuns returns the job's run history, newest first
	ListRuns(ctx context.Context, ref *JobRef) ([]Run, error)
}

// Factory builds a provider from an API token.
type Factory func(token string) Provider

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// RegisterProvider makes a provider factory available by name.
// Host adapters call it from init().
func RegisterProvider(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("provider: RegisterProvider factory is nil for " + name)
	}
	registry[name] = factory
}

// Registered returns the sorted names of all registered providers.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	buildkiteURLPattern = regexp.MustCompile(`^https://buildkite\.com/([^/]+)/([^/?#]+)/?$`)
	githubURLPattern    = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/actions/workflows/([^/?#]+)/?$`)
	localURLPattern     = regexp.MustCompile(`^local:(?://)?([^\s]+)$`)
)

// ParseURL detects provider and parses a job reference from URL
func ParseURL(url string) (*JobRef, error) {
	url = strings.TrimSpace(url)

	// Try Buildkite pipeline pattern
	if matches := buildkiteURLPattern.FindStringSubmatch(url); matches != nil {
		return &JobRef{
			Provider: "buildkite",
			Name:     matches[1] + "/" + matches[2],
			Metadata: map[string]string{
				"org":      matches[1],
				"pipeline": matches[2],
			},
		}, nil
	}

	// Try GitHub Actions workflow pattern
	if matches := githubURLPattern.FindStringSubmatch(url); matches != nil {
		return &JobRef{
			Provider: "github",
			Name:     matches[1] + "/" + matches[2] + "/" + matches[3],
			Metadata: map[string]string{
				"owner":    matches[1],
				"repo":     matches[2],
				"workflow": matches[3],
			},
		}, nil
	}

	// Locally recorded job history
	if matches := localURLPattern.FindStringSubmatch(url); matches != nil {
		return &JobRef{
			Provider: "local",
			Name:     matches[1],
			Metadata: map[string]string{"job": matches[1]},
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrInvalidURL, url)
}

// GetProvider returns the provider implementation for a job ref
func GetProvider(ref *JobRef, token string) (Provider, error) {
	registryMu.RLock()
	factory, ok := registry[ref.Provider]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnknown, ref.Provider)
	}
	return factory(token), nil
}
