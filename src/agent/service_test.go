package agent

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"runselect/src/config"
	"runselect/src/contracts"
	"runselect/src/provider"
	"runselect/src/selector"
	"runselect/src/store"
)

// localHistory records A (FAILURE), B (SUCCESS), C (UNSTABLE, kept) as local:lib.
func localHistory(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	ctx := context.Background()
	for _, run := range []provider.Run{
		{ID: "a", Number: 1, Status: provider.StatusFailure},
		{ID: "b", Number: 2, Status: provider.StatusSuccess},
		{ID: "c", Number: 3, Status: provider.StatusUnstable, KeepForever: true},
	} {
		if err := st.SaveRun(ctx, "lib", run); err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}
	}
	store.Register(st)
	return st
}

func fallbackPolicy() selector.Policy {
	return selector.Policy{
		Selector: selector.SelectorSpec{
			Kind: "fallback",
			Entries: []selector.FallbackEntrySpec{
				{Selector: selector.SelectorSpec{Kind: "status", Status: "UNSTABLE"}},
				{Selector: selector.SelectorSpec{Kind: "status", Status: "STABLE"}},
			},
		},
	}
}

func TestService_Handle(t *testing.T) {
	localHistory(t)
	svc := NewService(nil, &config.Config{}, nil)
	ctx := context.Background()

	tests := []struct {
		name        string
		req         contracts.SelectionRequest
		wantOutcome string
		wantRun     string
	}{
		{
			name:        "fallback selects the kept unstable run",
			req:         contracts.SelectionRequest{RequestID: "r1", JobURL: "local:lib", Policy: fallbackPolicy()},
			wantOutcome: contracts.OutcomeSelected,
			wantRun:     "c",
		},
		{
			name: "status with saved filter finds nothing",
			req: contracts.SelectionRequest{
				RequestID: "r2",
				JobURL:    "local:lib",
				Policy: selector.Policy{
					Selector: selector.SelectorSpec{Kind: "status", Status: "STABLE"},
					Filter:   &selector.FilterSpec{Kind: "saved"},
				},
			},
			wantOutcome: contracts.OutcomeNoCandidate,
		},
		{
			name:        "unknown job has no runs",
			req:         contracts.SelectionRequest{RequestID: "r3", JobURL: "local:missing", Policy: fallbackPolicy()},
			wantOutcome: contracts.OutcomeNoCandidate,
		},
		{
			name: "unknown kind",
			req: contracts.SelectionRequest{
				RequestID: "r4",
				JobURL:    "local:lib",
				Policy:    selector.Policy{Selector: selector.SelectorSpec{Kind: "lastGreen"}},
			},
			wantOutcome: contracts.OutcomeConfigError,
		},
		{
			name:        "bad URL",
			req:         contracts.SelectionRequest{RequestID: "r5", JobURL: "ftp://x", Policy: fallbackPolicy()},
			wantOutcome: contracts.OutcomeConfigError,
		},
		{
			name:        "missing token",
			req:         contracts.SelectionRequest{RequestID: "r6", JobURL: "https://buildkite.com/acme/lib", Policy: fallbackPolicy()},
			wantOutcome: contracts.OutcomeConfigError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.Handle(ctx, tt.req)

			if result.Outcome != tt.wantOutcome {
				t.Fatalf("Outcome = %s (%s), want %s", result.Outcome, result.Error, tt.wantOutcome)
			}
			if result.RequestID != tt.req.RequestID || result.JobURL != tt.req.JobURL {
				t.Errorf("result does not echo the request: %+v", result)
			}
			if result.CompletedAt.IsZero() {
				t.Error("CompletedAt not set")
			}
			if tt.wantRun == "" {
				if result.Run != nil {
					t.Errorf("Run = %+v, want none", result.Run)
				}
				return
			}
			if result.Run == nil || result.Run.ID != tt.wantRun {
				t.Errorf("Run = %+v, want %s", result.Run, tt.wantRun)
			}
		})
	}
}

func TestService_HostUnavailable(t *testing.T) {
	// Tests that need the recorded history call localHistory, which
	// registers "local" again.
	provider.RegisterProvider("local", func(string) provider.Provider { return downProvider{} })

	svc := NewService(nil, nil, nil)
	result := svc.Handle(context.Background(), contracts.SelectionRequest{
		RequestID: "r7",
		JobURL:    "local:lib",
		Policy:    fallbackPolicy(),
	})

	if result.Outcome != contracts.OutcomeHostError {
		t.Fatalf("Outcome = %s, want %s", result.Outcome, contracts.OutcomeHostError)
	}
	if !strings.Contains(result.Error, "503") {
		t.Errorf("Error = %q, should keep the cause", result.Error)
	}
	if !errors.Is(ResultError(result), provider.ErrHostUnavailable) {
		t.Errorf("ResultError() = %v, want ErrHostUnavailable", ResultError(result))
	}
}

// downProvider fails every ListRuns call.
type downProvider struct{}

func (downProvider) Name() string { return "local" }

func (downProvider) ParseURL(url string) (*provider.JobRef, error) { return provider.ParseURL(url) }

func (downProvider) ListRuns(ctx context.Context, ref *provider.JobRef) ([]provider.Run, error) {
	return nil, provider.StatusError("local", http.StatusServiceUnavailable, "maintenance")
}

func TestResultError(t *testing.T) {
	if err := ResultError(contracts.SelectionResult{Outcome: contracts.OutcomeSelected}); err != nil {
		t.Errorf("selected: %v", err)
	}
	if err := ResultError(contracts.SelectionResult{Outcome: contracts.OutcomeNoCandidate}); err != nil {
		t.Errorf("no candidate: %v", err)
	}

	err := ResultError(contracts.SelectionResult{Outcome: contracts.OutcomeConfigError, Error: "bad kind"})
	if !errors.Is(err, selector.ErrInvalidConfig) || !strings.Contains(err.Error(), "bad kind") {
		t.Errorf("config error: %v", err)
	}
}

func TestService_History(t *testing.T) {
	localHistory(t)
	svc := NewService(nil, nil, nil)

	ref, h, err := svc.History(context.Background(), "local:lib")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if ref.Name != "lib" {
		t.Errorf("ref.Name = %q, want lib", ref.Name)
	}
	if len(h) != 3 || h[0].Number != 3 || h[2].Number != 1 {
		t.Errorf("history = %+v, want #3..#1", h)
	}

	if _, _, err := svc.History(context.Background(), "not a url"); !errors.Is(err, provider.ErrInvalidURL) {
		t.Errorf("History(bad url) error = %v, want ErrInvalidURL", err)
	}
}
