package provider

import (
	"fmt"
	"strings"
	"time"
)

// Status is the completion result of a run.
type Status string

const (
	StatusSuccess  Status = "SUCCESS"
	StatusUnstable Status = "UNSTABLE"
	StatusFailure  Status = "FAILURE"
	StatusNotBuilt Status = "NOT_BUILT"
	StatusAborted  Status = "ABORTED"
)

// severity orders results from best to worst.
var severity = map[Status]int{
	StatusSuccess:  0,
	StatusUnstable: 1,
	StatusFailure:  2,
	StatusNotBuilt: 3,
	StatusAborted:  4,
}

// ParseStatus accepts a result name in any case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := severity[st]; !ok {
		return "", fmt.Errorf("unknown run status %q", s)
	}
	return st, nil
}

// Valid reports whether s is one of the known results.
func (s Status) Valid() bool {
	_, ok := severity[s]
	return ok
}

// IsBetterOrEqualTo reports whether s is at least as good as other.
// Unknown statuses are never better than anything.
func (s Status) IsBetterOrEqualTo(other Status) bool {
	a, ok := severity[s]
	if !ok {
		return false
	}
	b, ok := severity[other]
	if !ok {
		return false
	}
	return a <= b
}

// JobRef identifies a job (pipeline, workflow) on a CI host
type JobRef struct {
	Provider string            // "buildkite", "github" or "local"
	Name     string            // Human readable job name
	Metadata map[string]string // Provider-specific metadata
}

// String returns "provider:name".
func (r JobRef) String() string {
	return r.Provider + ":" + r.Name
}

// Run is one execution of a job. Values are treated as immutable once returned
// by a provider; the Parameters map must not be modified by consumers.
type Run struct {
	ID          string
	Number      int
	Job         string
	DisplayName string
	URL         string
	Status      Status
	Building    bool
	KeepForever bool
	Parameters  map[string]string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Label returns the display name, falling back to "#<number>".
func (r Run) Label() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return fmt.Sprintf("#%d", r.Number)
}

// Invoker identifies the job and build that asked for a selection.
type Invoker struct {
	Job   string
	Build string
}

// String returns "job#build", or just the job when no build is known.
func (i Invoker) String() string {
	if i.Build == "" {
		return i.Job
	}
	return i.Job + "#" + i.Build
}
