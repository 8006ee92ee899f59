// Package contracts defines message types exchanged between the CLI and the
// selection agent over the broker.
package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"runselect/src/provider"
	"runselect/src/selector"
)

// Topics.
const (
	// TopicSelectionRequests carries SelectionRequest values.
	// Key: {request_id}
	TopicSelectionRequests = "runselect.requests"

	// TopicSelectionResults carries SelectionResult values.
	// Key: {request_id}
	TopicSelectionResults = "runselect.results"
)

// Outcome of a selection request.
const (
	OutcomeSelected    = "selected"
	OutcomeNoCandidate = "no_candidate"
	OutcomeConfigError = "config_error"
	OutcomeHostError   = "host_unavailable"
)

// SelectionRequest asks the agent to pick a run of JobURL.
// Published to: runselect.requests
type SelectionRequest struct {
	RequestID    string          `json:"request_id"`
	JobURL       string          `json:"job_url"`
	Policy       selector.Policy `json:"policy"`
	InvokerJob   string          `json:"invoker_job,omitempty"`
	InvokerBuild string          `json:"invoker_build,omitempty"`
	RequestedAt  time.Time       `json:"requested_at"`
}

// Invoker returns the requesting job and build.
func (r SelectionRequest) Invoker() provider.Invoker {
	return provider.Invoker{Job: r.InvokerJob, Build: r.InvokerBuild}
}

// DecodeSelectionRequest decodes a request message. The envelope must be
// valid JSON; the policy is decoded strictly, so a misspelt key returns the
// partially decoded request together with a *selector.ConfigError.
func DecodeSelectionRequest(data []byte) (SelectionRequest, error) {
	var envelope struct {
		SelectionRequest
		Policy json.RawMessage `json:"policy"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return SelectionRequest{}, fmt.Errorf("failed to unmarshal request: %w", err)
	}

	req := envelope.SelectionRequest
	raw := bytes.TrimSpace(envelope.Policy)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return req, nil
	}

	policy, err := selector.ParsePolicy(raw)
	if err != nil {
		return req, err
	}
	req.Policy = policy
	return req, nil
}

// SelectionResult reports the outcome of a SelectionRequest.
// Published to: runselect.results
type SelectionResult struct {
	RequestID   string     `json:"request_id"`
	JobURL      string     `json:"job_url"`
	Outcome     string     `json:"outcome"`
	Run         *RunRecord `json:"run,omitempty"`
	Error       string     `json:"error,omitempty"`
	CompletedAt time.Time  `json:"completed_at"`
}

// RunRecord is the wire form of a provider.Run.
type RunRecord struct {
	ID          string            `json:"id"`
	Number      int               `json:"number"`
	Job         string            `json:"job"`
	DisplayName string            `json:"display_name,omitempty"`
	URL         string            `json:"url,omitempty"`
	Status      provider.Status   `json:"status,omitempty"`
	Building    bool              `json:"building,omitempty"`
	KeepForever bool              `json:"keep_forever,omitempty"`
	Parameters  map[string]string `json:"parameters,omitempty"`
	StartedAt   time.Time         `json:"started_at,omitempty"`
	FinishedAt  time.Time         `json:"finished_at,omitempty"`
}

// NewRunRecord converts a run for the wire.
func NewRunRecord(r provider.Run) *RunRecord {
	return &RunRecord{
		ID:          r.ID,
		Number:      r.Number,
		Job:         r.Job,
		DisplayName: r.DisplayName,
		URL:         r.URL,
		Status:      r.Status,
		Building:    r.Building,
		KeepForever: r.KeepForever,
		Parameters:  r.Parameters,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
	}
}

// Run converts back to a provider.Run.
func (r *RunRecord) Run() provider.Run {
	return provider.Run{
		ID:          r.ID,
		Number:      r.Number,
		Job:         r.Job,
		DisplayName: r.DisplayName,
		URL:         r.URL,
		Status:      r.Status,
		Building:    r.Building,
		KeepForever: r.KeepForever,
		Parameters:  r.Parameters,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
	}
}
