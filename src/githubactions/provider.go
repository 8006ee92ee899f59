package githubactions

import (
	"context"
	"fmt"
	"strconv"

	"runselect/src/provider"
)

// DefaultHistoryLimit bounds how many runs are read per selection.
const DefaultHistoryLimit = 500

func init() {
	// Register the GitHub Actions provider factory
	provider.RegisterProvider("github", func(token string) provider.Provider {
		return NewProvider(token)
	})
}

// Provider implements provider.Provider for GitHub Actions
type Provider struct {
	client *Client
	limit  int
}

// NewProvider creates a GitHub Actions provider with API token
func NewProvider(token string) *Provider {
	return &Provider{
		client: NewClient(token),
		limit:  DefaultHistoryLimit,
	}
}

// Name returns "github"
func (p *Provider) Name() string {
	return "github"
}

// ParseURL delegates to provider.ParseURL
func (p *Provider) ParseURL(url string) (*provider.JobRef, error) {
	return provider.ParseURL(url)
}

// ListRuns retrieves the workflow's runs using the GitHub API.
// GitHub has no retention flag, so runs are never marked KeepForever.
func (p *Provider) ListRuns(ctx context.Context, ref *provider.JobRef) ([]provider.Run, error) {
	owner := ref.Metadata["owner"]
	repo := ref.Metadata["repo"]
	workflow := ref.Metadata["workflow"]
	if owner == "" || repo == "" || workflow == "" {
		return nil, fmt.Errorf("%w: %s has no owner/repo/workflow", provider.ErrInvalidURL, ref)
	}

	ghRuns, err := p.client.ListWorkflowRuns(ctx, owner, repo, workflow, p.limit)
	if err != nil {
		return nil, err
	}

	runs := make([]provider.Run, 0, len(ghRuns))
	for _, r := range ghRuns {
		status, building := mapGitHubStatus(r.Status, r.Conclusion)
		run := provider.Run{
			ID:          strconv.FormatInt(r.ID, 10),
			Number:      r.RunNumber,
			Job:         ref.Name,
			DisplayName: r.DisplayTitle,
			URL:         r.HTMLURL,
			Status:      status,
			Building:    building,
			StartedAt:   r.RunStartedAt,
			Parameters: map[string]string{
				"event":       r.Event,
				"head_branch": r.HeadBranch,
				"head_sha":    r.HeadSHA,
			},
		}
		if !building {
			run.FinishedAt = r.UpdatedAt
		}
		runs = append(runs, run)
	}

	return runs, nil
}

// mapGitHubStatus maps GitHub status/conclusion to a run result.
// Anything not yet completed is reported as building.
func mapGitHubStatus(status, conclusion string) (provider.Status, bool) {
	if status != "completed" {
		return "", true
	}
	switch conclusion {
	case "success":
		return provider.StatusSuccess, false
	case "neutral":
		return provider.StatusUnstable, false
	case "failure", "timed_out", "startup_failure":
		return provider.StatusFailure, false
	case "cancelled":
		return provider.StatusAborted, false
	default:
		// skipped, stale, action_required
		return provider.StatusNotBuilt, false
	}
}
