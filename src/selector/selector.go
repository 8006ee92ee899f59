// Package selector picks one run out of a job's history according to a
// configured policy.
//
// A policy is a RunSelector (status, buildNumber, permalink, fallback)
// optionally narrowed by a RunFilter (saved, parameters, status, and/or/not).
// Selectors and filters are immutable values; one instance may serve any
// number of concurrent selections.
package selector

import (
	"context"
	"fmt"
	"sort"

	"runselect/src/logger"
	"runselect/src/provider"
)

// Context carries the identity of the invoking build and a log sink through
// every selector and filter call of one selection.
type Context struct {
	invoker provider.Invoker
	log     logger.Logger
}

// NewContext creates a selection context. A nil log discards messages.
func NewContext(invoker provider.Invoker, log logger.Logger) *Context {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	return &Context{invoker: invoker, log: log}
}

// Invoker returns the job and build that requested the selection.
func (c *Context) Invoker() provider.Invoker {
	if c == nil {
		return provider.Invoker{}
	}
	return c.invoker
}

// Logger returns the log sink.
func (c *Context) Logger() logger.Logger {
	if c == nil || c.log == nil {
		return logger.NewSilentLogger()
	}
	return c.log
}

// RunFilter decides whether a run may be selected.
// Returning false is "no match", never a failure.
type RunFilter interface {
	IsSelectable(run provider.Run, sc *Context) bool
}

// RunSelector chooses at most one run from a history. The filter is applied
// in addition to the selector's own criteria. ok is false when no run
// qualifies.
type RunSelector interface {
	Select(h History, filter RunFilter, sc *Context) (run provider.Run, ok bool)
}

// RunSource provides a job's run history. provider.Provider satisfies it.
type RunSource interface {
	ListRuns(ctx context.Context, ref *provider.JobRef) ([]provider.Run, error)
}

// History is a snapshot of a job's runs, newest first.
type History []provider.Run

// NewHistory copies runs and orders them newest first by run number.
// Runs with equal numbers keep their relative order.
func NewHistory(runs []provider.Run) History {
	h := make(History, len(runs))
	copy(h, runs)
	sort.SliceStable(h, func(i, j int) bool {
		return h[i].Number > h[j].Number
	})
	return h
}

// scan returns the first run, newest first, accepted by both accept and filter.
func scan(h History, accept func(provider.Run) bool, filter RunFilter, sc *Context) (provider.Run, bool) {
	for _, run := range h {
		if !accept(run) {
			continue
		}
		if filter != nil && !filter.IsSelectable(run, sc) {
			sc.Logger().Debug("run %s rejected by filter", run.Label())
			continue
		}
		return run, true
	}
	return provider.Run{}, false
}

// Select reads one snapshot of the job's history from src and applies sel and
// filter to it. A nil filter accepts every run.
//
// Finding no candidate is not an error: ok is false and err is nil. Failing to
// read the history is fatal and wraps provider.ErrHostUnavailable.
func Select(ctx context.Context, src RunSource, ref *provider.JobRef, sel RunSelector, filter RunFilter, sc *Context) (provider.Run, bool, error) {
	if sel == nil {
		return provider.Run{}, false, configErrorf("select", "a selector is required")
	}
	if filter == nil {
		filter = NoFilter{}
	}

	runs, err := src.ListRuns(ctx, ref)
	if err != nil {
		return provider.Run{}, false, fmt.Errorf("%w: listing runs of %s: %w", provider.ErrHostUnavailable, ref, err)
	}

	log := sc.Logger()
	log.Debug("selecting from %d runs of %s for %s", len(runs), ref, sc.Invoker())

	run, ok := sel.Select(NewHistory(runs), filter, sc)
	if !ok {
		log.Info("no run of %s matched the selector", ref)
		return provider.Run{}, false, nil
	}

	log.Info("selected run %s (%s) of %s", run.Label(), run.Status, ref)
	return run, true, nil
}
