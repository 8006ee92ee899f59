package buildkite

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"runselect/src/provider"
)

func TestBuildkiteProvider_Name(t *testing.T) {
	p := NewProvider("fake-token")
	if p.Name() != "buildkite" {
		t.Errorf("Name() = %v, want buildkite", p.Name())
	}
}

func TestBuildkiteProvider_ParseURL(t *testing.T) {
	p := NewProvider("fake-token")

	ref, err := p.ParseURL("https://buildkite.com/myorg/mypipeline")
	if err != nil {
		t.Fatalf("ParseURL() error = %v", err)
	}

	if ref.Provider != "buildkite" {
		t.Errorf("Provider = %v, want buildkite", ref.Provider)
	}
	if ref.Metadata["org"] != "myorg" {
		t.Errorf("org = %v, want myorg", ref.Metadata["org"])
	}
	if ref.Metadata["pipeline"] != "mypipeline" {
		t.Errorf("pipeline = %v, want mypipeline", ref.Metadata["pipeline"])
	}
}

func TestBuildkiteProvider_Registered(t *testing.T) {
	ref := &provider.JobRef{Provider: "buildkite"}
	p, err := provider.GetProvider(ref, "token")
	if err != nil {
		t.Fatalf("GetProvider() error = %v", err)
	}
	if p.Name() != "buildkite" {
		t.Errorf("Name() = %v, want buildkite", p.Name())
	}
}

func TestMapState(t *testing.T) {
	tests := []struct {
		state        string
		softFailed   bool
		wantStatus   provider.Status
		wantBuilding bool
	}{
		{state: "passed", wantStatus: provider.StatusSuccess},
		{state: "passed", softFailed: true, wantStatus: provider.StatusUnstable},
		{state: "failed", wantStatus: provider.StatusFailure},
		{state: "canceled", wantStatus: provider.StatusAborted},
		{state: "skipped", wantStatus: provider.StatusNotBuilt},
		{state: "not_run", wantStatus: provider.StatusNotBuilt},
		{state: "running", wantBuilding: true},
		{state: "scheduled", wantBuilding: true},
		{state: "failing", wantBuilding: true},
		{state: "blocked", wantBuilding: true},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			b := Build{State: tt.state, Jobs: []Job{{State: "passed"}, {State: "failed", SoftFailed: tt.softFailed}}}
			status, building := mapState(b)
			if status != tt.wantStatus || building != tt.wantBuilding {
				t.Errorf("mapState(%s) = %q, %v, want %q, %v", tt.state, status, building, tt.wantStatus, tt.wantBuilding)
			}
		})
	}
}

func TestBuildkiteProvider_ListRuns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/organizations/acme/pipelines/lib/builds" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "c", "number": 3, "state": "passed", "web_url": "https://buildkite.com/acme/lib/builds/3",
			 "meta_data": {"keep-forever": "true"},
			 "env": {"BRANCH": "main", "RETRIES": 2, "DEPLOY": true},
			 "started_at": "2024-01-03T12:00:00Z", "finished_at": "2024-01-03T12:10:00Z",
			 "jobs": [{"id": "j1", "state": "failed", "soft_failed": true}]},
			{"id": "b", "number": 2, "state": "passed", "jobs": []},
			{"id": "a", "number": 1, "state": "failed", "started_at": null}
		]`))
	}))
	defer server.Close()

	p := NewProvider("test-token")
	p.client.baseURL = server.URL

	ref, err := provider.ParseURL("https://buildkite.com/acme/lib")
	if err != nil {
		t.Fatalf("ParseURL() error = %v", err)
	}

	runs, err := p.ListRuns(context.Background(), ref)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}

	c := runs[0]
	if c.Status != provider.StatusUnstable || !c.KeepForever || c.Number != 3 {
		t.Errorf("run c = %+v, want unstable kept #3", c)
	}
	if c.Job != "acme/lib" {
		t.Errorf("Job = %q, want acme/lib", c.Job)
	}
	if c.Parameters["BRANCH"] != "main" || c.Parameters["RETRIES"] != "2" || c.Parameters["DEPLOY"] != "true" {
		t.Errorf("Parameters = %v", c.Parameters)
	}
	if c.FinishedAt.Sub(c.StartedAt).Minutes() != 10 {
		t.Errorf("duration = %v, want 10m", c.FinishedAt.Sub(c.StartedAt))
	}

	if runs[1].Status != provider.StatusSuccess || runs[1].KeepForever {
		t.Errorf("run b = %+v, want success not kept", runs[1])
	}
	if runs[2].Status != provider.StatusFailure || !runs[2].StartedAt.IsZero() {
		t.Errorf("run a = %+v, want failure with no start time", runs[2])
	}
}

func TestBuildkiteProvider_ListRuns_MissingMetadata(t *testing.T) {
	p := NewProvider("test-token")
	_, err := p.ListRuns(context.Background(), &provider.JobRef{Provider: "buildkite", Name: "x"})
	if !errors.Is(err, provider.ErrInvalidURL) {
		t.Errorf("ListRuns() error = %v, want ErrInvalidURL", err)
	}
}
