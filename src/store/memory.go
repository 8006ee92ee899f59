package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"runselect/src/contracts"
	"runselect/src/provider"
)

// MemoryStore is an in-memory implementation of Store.
// Used for local mode, the MCP server and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	runs       map[string]map[int]provider.Run // job -> number -> run
	selections []contracts.SelectionResult
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make(map[string]map[int]provider.Run),
	}
}

// SaveRun records a run of job.
func (s *MemoryStore) SaveRun(ctx context.Context, job string, run provider.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byNumber, ok := s.runs[job]
	if !ok {
		byNumber = make(map[int]provider.Run)
		s.runs[job] = byNumber
	}

	run.Job = job
	run.Parameters = copyParams(run.Parameters)
	byNumber[run.Number] = run
	return nil
}

// ListRuns returns copies of the runs of job, newest first.
func (s *MemoryStore) ListRuns(ctx context.Context, job string) ([]provider.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byNumber := s.runs[job]
	runs := make([]provider.Run, 0, len(byNumber))
	for _, run := range byNumber {
		run.Parameters = copyParams(run.Parameters)
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Number > runs[j].Number })
	return runs, nil
}

// SetKeepForever sets the retention flag of one run.
func (s *MemoryStore) SetKeepForever(ctx context.Context, job string, number int, keep bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[job][number]
	if !ok {
		return fmt.Errorf("%w: %s #%d", ErrRunNotFound, job, number)
	}
	run.KeepForever = keep
	s.runs[job][number] = run
	return nil
}

// SaveSelection appends to the audit log.
func (s *MemoryStore) SaveSelection(ctx context.Context, result contracts.SelectionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selections = append(s.selections, result)
	return nil
}

// ListSelections returns up to limit entries, most recent first.
// A limit of zero or less returns everything.
func (s *MemoryStore) ListSelections(ctx context.Context, limit int) ([]contracts.SelectionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.selections)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]contracts.SelectionResult, 0, n)
	for i := len(s.selections) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, s.selections[i])
	}
	return result, nil
}

// Close closes the store (no-op for memory store).
func (s *MemoryStore) Close() error {
	return nil
}

func copyParams(params map[string]string) map[string]string {
	if params == nil {
		return nil
	}
	cp := make(map[string]string, len(params))
	for k, v := range params {
		cp[k] = v
	}
	return cp
}
