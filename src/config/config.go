// Package config provides configuration management for runselect.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the application configuration.
type Config struct {
	// BuildkiteAPIToken is the API token for authenticating with Buildkite.
	BuildkiteAPIToken string
	// GitHubToken is the token for the GitHub Actions API.
	GitHubToken string
	// RedpandaBrokers enables the distributed selection agent when non-empty.
	RedpandaBrokers []string
	// PostgresDSN points at the run history and selection audit database.
	PostgresDSN string
	// LogLevel and LogFormat configure structured logging (see logger.FromConfig).
	LogLevel  string
	LogFormat string
}

// LoadFromEnv loads configuration from environment variables.
// No token is required up front; see TokenFor.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		BuildkiteAPIToken: os.Getenv("BUILDKITE_API_TOKEN"),
		GitHubToken:       os.Getenv("GITHUB_TOKEN"),
		RedpandaBrokers:   splitList(os.Getenv("REDPANDA_BROKERS")),
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		LogLevel:          strings.ToLower(os.Getenv("LOG_LEVEL")),
		LogFormat:         strings.ToLower(os.Getenv("LOG_FORMAT")),
	}

	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// MustLoadFromEnv loads configuration from environment variables and panics on error.
// This is useful for initialization in main() where configuration errors should be fatal.
func MustLoadFromEnv() *Config {
	cfg, err := LoadFromEnv()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// TokenFor returns the API token for a provider name.
// The local provider needs none.
func (c *Config) TokenFor(provider string) (string, error) {
	switch provider {
	case "buildkite":
		if c.BuildkiteAPIToken == "" {
			return "", fmt.Errorf("BUILDKITE_API_TOKEN environment variable is required for Buildkite jobs")
		}
		return c.BuildkiteAPIToken, nil
	case "github":
		if c.GitHubToken == "" {
			return "", fmt.Errorf("GITHUB_TOKEN environment variable is required for GitHub Actions jobs")
		}
		return c.GitHubToken, nil
	default:
		return "", nil
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
