package buildkite

import (
	"context"
	"fmt"
	"strconv"

	"runselect/src/provider"
)

// KeepForeverKey is the build meta-data key that marks a build as kept.
const KeepForeverKey = "keep-forever"

// DefaultHistoryLimit bounds how many builds are read per selection.
const DefaultHistoryLimit = 500

func init() {
	// Register the Buildkite provider factory
	provider.RegisterProvider("buildkite", func(token string) provider.Provider {
		return NewProvider(token)
	})
}

// Provider implements provider.Provider for Buildkite
type Provider struct {
	client *Client
	limit  int
}

// NewProvider creates a Buildkite provider with API token
func NewProvider(token string) *Provider {
	return &Provider{
		client: NewClient(token),
		limit:  DefaultHistoryLimit,
	}
}

// Name returns "buildkite"
func (p *Provider) Name() string {
	return "buildkite"
}

// ParseURL delegates to provider.ParseURL
func (p *Provider) ParseURL(url string) (*provider.JobRef, error) {
	return provider.ParseURL(url)
}

// ListRuns retrieves the pipeline's builds using the Buildkite API
func (p *Provider) ListRuns(ctx context.Context, ref *provider.JobRef) ([]provider.Run, error) {
	org := ref.Metadata["org"]
	pipeline := ref.Metadata["pipeline"]
	if org == "" || pipeline == "" {
		return nil, fmt.Errorf("%w: %s has no org/pipeline", provider.ErrInvalidURL, ref)
	}

	builds, err := p.client.ListBuilds(ctx, org, pipeline, p.limit)
	if err != nil {
		return nil, err
	}

	runs := make([]provider.Run, 0, len(builds))
	for _, b := range builds {
		runs = append(runs, toRun(ref.Name, b))
	}
	return runs, nil
}

func toRun(job string, b Build) provider.Run {
	status, building := mapState(b)
	run := provider.Run{
		ID:          b.ID,
		Number:      b.Number,
		Job:         job,
		URL:         b.WebURL,
		Status:      status,
		Building:    building,
		KeepForever: b.MetaData[KeepForeverKey] == "true",
	}
	if b.StartedAt != nil {
		run.StartedAt = *b.StartedAt
	}
	if b.FinishedAt != nil {
		run.FinishedAt = *b.FinishedAt
	}
	if len(b.Env) > 0 {
		run.Parameters = make(map[string]string, len(b.Env))
		for k, v := range b.Env {
			run.Parameters[k] = stringify(v)
		}
	}
	return run
}

// mapState maps a Buildkite build state to a run result.
// A passed build with soft-failed jobs counts as unstable.
func mapState(b Build) (provider.Status, bool) {
	switch b.State {
	case "passed":
		for _, j := range b.Jobs {
			if j.SoftFailed {
				return provider.StatusUnstable, false
			}
		}
		return provider.StatusSuccess, false
	case "failed":
		return provider.StatusFailure, false
	case "canceled":
		return provider.StatusAborted, false
	case "skipped", "not_run":
		return provider.StatusNotBuilt, false
	default:
		// scheduled, running, failing, blocked, canceling, creating, waiting
		return "", true
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
