package githubactions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"runselect/src/provider"
)

// perPage is GitHub's max page size.
const perPage = 100

// Client is a GitHub Actions API client
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new GitHub Actions client
func NewClient(token string) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://api.github.com",
	}
}

// ListWorkflowRuns fetches up to limit runs of a workflow, newest first
// (handles pagination). A limit of zero or less fetches every page.
func (c *Client) ListWorkflowRuns(ctx context.Context, owner, repo, workflow string, limit int) ([]WorkflowRun, error) {
	var allRuns []WorkflowRun
	page := 1

	for {
		endpoint := fmt.Sprintf("%s/repos/%s/%s/actions/workflows/%s/runs?per_page=%d&page=%d",
			c.baseURL, url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(workflow), perPage, page)

		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			return nil, err
		}

		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.Header.Set("Accept", "application/vnd.github+json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, provider.StatusError("GitHub", resp.StatusCode, string(body))
		}

		var runsResp WorkflowRunsResponse
		if err := json.NewDecoder(resp.Body).Decode(&runsResp); err != nil {
			resp.Body.Close()
			return nil, err
		}
		resp.Body.Close()

		allRuns = append(allRuns, runsResp.WorkflowRuns...)

		if limit > 0 && len(allRuns) >= limit {
			return allRuns[:limit], nil
		}

		// Check if we've fetched all runs
		if len(allRuns) >= runsResp.TotalCount || len(runsResp.WorkflowRuns) < perPage {
			break
		}

		page++
	}

	return allRuns, nil
}
