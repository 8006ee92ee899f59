// Package buildkite provides a client for interacting with the Buildkite API.
package buildkite

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

const (
	// APIBaseURL is the base URL for the Buildkite API.
	APIBaseURL = "https://api.buildkite.com/v2"

	// perPage is the largest page size the builds endpoint accepts.
	perPage = 100
)

// Client is a Buildkite API client.
type Client struct {
	apiToken   string
	httpClient *http.Client
	baseURL    string
}

// Build represents a Buildkite build.
type Build struct {
	ID         string            `json:"id"`
	Number     int               `json:"number"`
	State      string            `json:"state"`
	WebURL     string            `json:"web_url"`
	Message    string            `json:"message"`
	Branch     string            `json:"branch"`
	Commit     string            `json:"commit"`
	Env        map[string]any    `json:"env"`
	MetaData   map[string]string `json:"meta_data"`
	CreatedAt  time.Time         `json:"created_at"`
	StartedAt  *time.Time        `json:"started_at"`
	FinishedAt *time.Time        `json:"finished_at"`
	Jobs       []Job             `json:"jobs"`
}

// Job represents a Buildkite job within a build.
type Job struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	State      string `json:"state"`
	SoftFailed bool   `json:"soft_failed"`
}

// NewClient creates a new Buildkite API client.
func NewClient(apiToken string) *Client {
	return &Client{
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: APIBaseURL,
	}
}

// ListBuilds fetches up to limit builds of a pipeline, newest first.
// A limit of zero or less fetches every page.
func (c *Client) ListBuilds(ctx context.Context, org, pipeline string, limit int) ([]Build, error) {
	var all []Build

	for page := 1; ; page++ {
		endpoint := fmt.Sprintf("%s/organizations/%s/pipelines/%s/builds?per_page=%d&page=%d",
			c.baseURL, url.PathEscape(org), url.PathEscape(pipeline), perPage, page)

		var builds []Build
		if err := c.getJSON(ctx, endpoint, &builds); err != nil {
			return nil, err
		}
		all = append(all, builds...)

		if limit > 0 && len(all) >= limit {
			return all[:limit], nil
		}
		if len(builds) < perPage {
			return all, nil
		}
	}
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return provider.StatusError("Buildkite", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
