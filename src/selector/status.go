package selector

import (
	"strings"

	"runselect/src/provider"
)

// BuildStatus names a class of run results.
type BuildStatus string

const (
	BuildStable     BuildStatus = "STABLE"     // SUCCESS
	BuildSuccessful BuildStatus = "SUCCESSFUL" // SUCCESS or UNSTABLE
	BuildUnstable   BuildStatus = "UNSTABLE"
	BuildFailed     BuildStatus = "FAILED" // FAILURE
	BuildCompleted  BuildStatus = "COMPLETED"
	BuildAny        BuildStatus = "ANY" // includes runs still in progress
)

var buildStatuses = []BuildStatus{
	BuildStable,
	BuildSuccessful,
	BuildUnstable,
	BuildFailed,
	BuildCompleted,
	BuildAny,
}

// ParseBuildStatus accepts any case. The empty string means STABLE.
func ParseBuildStatus(s string) (BuildStatus, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return BuildStable, nil
	}
	for _, b := range buildStatuses {
		if string(b) == s {
			return b, nil
		}
	}
	return "", configErrorf("status", "unknown build status %q (want one of %v)", s, buildStatuses)
}

// Matches reports whether run falls in the class. Every class but ANY
// excludes runs that are still building. Unknown classes match nothing.
func (b BuildStatus) Matches(run provider.Run) bool {
	if b == BuildAny {
		return true
	}
	if run.Building {
		return false
	}

	switch b {
	case BuildStable:
		return run.Status == provider.StatusSuccess
	case BuildSuccessful:
		return run.Status.IsBetterOrEqualTo(provider.StatusUnstable)
	case BuildUnstable:
		return run.Status == provider.StatusUnstable
	case BuildFailed:
		return run.Status == provider.StatusFailure
	case BuildCompleted:
		return true
	default:
		return false
	}
}

// StatusSelector picks the newest run whose result falls in Status.
// The zero value selects the newest stable run.
type StatusSelector struct {
	Status BuildStatus
}

// NewStatusSelector validates status.
func NewStatusSelector(status BuildStatus) (StatusSelector, error) {
	b, err := ParseBuildStatus(string(status))
	if err != nil {
		return StatusSelector{}, err
	}
	return StatusSelector{Status: b}, nil
}

func (s StatusSelector) status() BuildStatus {
	if s.Status == "" {
		return BuildStable
	}
	return s.Status
}

// Select implements RunSelector.
func (s StatusSelector) Select(h History, filter RunFilter, sc *Context) (provider.Run, bool) {
	status := s.status()
	return scan(h, status.Matches, filter, sc)
}

func (s StatusSelector) String() string {
	return "status(" + string(s.status()) + ")"
}
