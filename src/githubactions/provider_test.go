package githubactions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"runselect/src/provider"
)

func TestGitHubProvider_Name(t *testing.T) {
	p := NewProvider("fake-token")
	if p.Name() != "github" {
		t.Errorf("Name() = %v, want github", p.Name())
	}
}

func TestGitHubProvider_ParseURL(t *testing.T) {
	p := NewProvider("fake-token")

	ref, err := p.ParseURL("https://github.com/owner/repo/actions/workflows/ci.yml")
	if err != nil {
		t.Fatalf("ParseURL() error = %v", err)
	}

	if ref.Provider != "github" {
		t.Errorf("Provider = %v, want github", ref.Provider)
	}
	if ref.Metadata["owner"] != "owner" {
		t.Errorf("owner = %v, want owner", ref.Metadata["owner"])
	}
	if ref.Metadata["repo"] != "repo" {
		t.Errorf("repo = %v, want repo", ref.Metadata["repo"])
	}
	if ref.Metadata["workflow"] != "ci.yml" {
		t.Errorf("workflow = %v, want ci.yml", ref.Metadata["workflow"])
	}
}

func TestMapGitHubStatus(t *testing.T) {
	tests := []struct {
		status       string
		conclusion   string
		wantStatus   provider.Status
		wantBuilding bool
	}{
		{"completed", "success", provider.StatusSuccess, false},
		{"completed", "neutral", provider.StatusUnstable, false},
		{"completed", "failure", provider.StatusFailure, false},
		{"completed", "timed_out", provider.StatusFailure, false},
		{"completed", "cancelled", provider.StatusAborted, false},
		{"completed", "skipped", provider.StatusNotBuilt, false},
		{"in_progress", "", "", true},
		{"queued", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.conclusion, func(t *testing.T) {
			status, building := mapGitHubStatus(tt.status, tt.conclusion)
			if status != tt.wantStatus || building != tt.wantBuilding {
				t.Errorf("mapGitHubStatus() = %q, %v, want %q, %v", status, building, tt.wantStatus, tt.wantBuilding)
			}
		})
	}
}

func TestGitHubProvider_ListRuns(t *testing.T) {
	started := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("Authorization header = %v, want Bearer test-token", auth)
		}
		if r.URL.Path != "/repos/testowner/testrepo/actions/workflows/ci.yml/runs" {
			http.NotFound(w, r)
			return
		}

		resp := WorkflowRunsResponse{
			TotalCount: 2,
			WorkflowRuns: []WorkflowRun{
				{
					ID:           12346,
					RunNumber:    43,
					DisplayTitle: "Bump deps",
					Status:       "in_progress",
					HeadBranch:   "main",
					RunStartedAt: started.Add(time.Hour),
				},
				{
					ID:           12345,
					RunNumber:    42,
					Status:       "completed",
					Conclusion:   "success",
					Event:        "push",
					HeadBranch:   "main",
					HTMLURL:      "https://github.com/testowner/testrepo/actions/runs/12345",
					RunStartedAt: started,
					UpdatedAt:    started.Add(5 * time.Minute),
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := NewProvider("test-token")
	p.client.baseURL = server.URL

	ref, err := provider.ParseURL("https://github.com/testowner/testrepo/actions/workflows/ci.yml")
	if err != nil {
		t.Fatalf("ParseURL() error = %v", err)
	}

	runs, err := p.ListRuns(context.Background(), ref)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}

	running := runs[0]
	if !running.Building || running.Label() != "Bump deps" || !running.FinishedAt.IsZero() {
		t.Errorf("running = %+v", running)
	}

	done := runs[1]
	if done.ID != "12345" || done.Number != 42 || done.Status != provider.StatusSuccess {
		t.Errorf("done = %+v", done)
	}
	if done.Job != "testowner/testrepo/ci.yml" {
		t.Errorf("Job = %q", done.Job)
	}
	if done.Parameters["head_branch"] != "main" || done.Parameters["event"] != "push" {
		t.Errorf("Parameters = %v", done.Parameters)
	}
	if done.KeepForever {
		t.Error("GitHub runs are never kept forever")
	}
	if !done.FinishedAt.Equal(started.Add(5 * time.Minute)) {
		t.Errorf("FinishedAt = %v", done.FinishedAt)
	}
}
