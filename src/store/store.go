// Package store defines the interface for persistent data storage.
package store

import (
	"context"
	"errors"

	"runselect/src/contracts"
	"runselect/src/provider"
)

// ErrRunNotFound is returned when a job has no run with the given number.
var ErrRunNotFound = errors.New("run not found")

// Store persists locally recorded job histories and the selection audit log.
type Store interface {
	// SaveRun records a run of job, replacing any run with the same number
	SaveRun(ctx context.Context, job string, run provider.Run) error

	// ListRuns returns the runs of job, newest first. An unknown job has no runs.
	ListRuns(ctx context.Context, job string) ([]provider.Run, error)

	// SetKeepForever sets the retention flag of one run
	SetKeepForever(ctx context.Context, job string, number int, keep bool) error

	// SaveSelection appends a selection outcome to the audit log
	SaveSelection(ctx context.Context, result contracts.SelectionResult) error

	// ListSelections returns up to limit audit entries, most recent first
	ListSelections(ctx context.Context, limit int) ([]contracts.SelectionResult, error)

	// Close closes the store connection
	Close() error
}
