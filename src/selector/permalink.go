package selector

import (
	"runselect/src/provider"
)

// Permalink names a well-known run of a job.
type Permalink string

const (
	LastBuild             Permalink = "lastBuild"
	LastStableBuild       Permalink = "lastStableBuild"
	LastSuccessfulBuild   Permalink = "lastSuccessfulBuild"
	LastUnstableBuild     Permalink = "lastUnstableBuild"
	LastFailedBuild       Permalink = "lastFailedBuild"
	LastUnsuccessfulBuild Permalink = "lastUnsuccessfulBuild"
	LastCompletedBuild    Permalink = "lastCompletedBuild"
	LastKeptBuild         Permalink = "lastKeptBuild"
)

var permalinks = map[Permalink]func(provider.Run) bool{
	LastBuild:             BuildAny.Matches,
	LastStableBuild:       BuildStable.Matches,
	LastSuccessfulBuild:   BuildSuccessful.Matches,
	LastUnstableBuild:     BuildUnstable.Matches,
	LastFailedBuild:       BuildFailed.Matches,
	LastUnsuccessfulBuild: isUnsuccessful,
	LastCompletedBuild:    BuildCompleted.Matches,
	LastKeptBuild:         isKept,
}

func isUnsuccessful(run provider.Run) bool {
	return !run.Building && run.Status != provider.StatusSuccess
}

func isKept(run provider.Run) bool {
	return run.KeepForever
}

// PermalinkSelector resolves a permalink to a single run. Unlike the other
// selectors the filter is checked against that run only; a rejected
// permalink target does not fall through to older runs.
type PermalinkSelector struct {
	Permalink Permalink
}

// NewPermalinkSelector validates the permalink name.
func NewPermalinkSelector(p Permalink) (PermalinkSelector, error) {
	if _, ok := permalinks[p]; !ok {
		return PermalinkSelector{}, configErrorf("permalink", "unknown permalink %q", p)
	}
	return PermalinkSelector{Permalink: p}, nil
}

// Select implements RunSelector.
func (s PermalinkSelector) Select(h History, filter RunFilter, sc *Context) (provider.Run, bool) {
	resolve, ok := permalinks[s.Permalink]
	if !ok {
		return provider.Run{}, false
	}

	run, ok := scan(h, resolve, nil, sc)
	if !ok {
		return provider.Run{}, false
	}
	if filter != nil && !filter.IsSelectable(run, sc) {
		sc.Logger().Debug("%s resolved to %s, rejected by filter", s.Permalink, run.Label())
		return provider.Run{}, false
	}
	return run, true
}

func (s PermalinkSelector) String() string {
	return "permalink(" + string(s.Permalink) + ")"
}
