package selector

import (
	"fmt"
	"sort"
	"strings"

	"runselect/src/provider"
)

// NoFilter accepts every run.
type NoFilter struct{}

// IsSelectable implements RunFilter.
func (NoFilter) IsSelectable(provider.Run, *Context) bool { return true }

func (NoFilter) String() string { return "none" }

// SavedFilter accepts runs marked "keep forever", whatever their result.
type SavedFilter struct{}

// IsSelectable implements RunFilter.
func (SavedFilter) IsSelectable(run provider.Run, _ *Context) bool {
	return run.KeepForever
}

func (SavedFilter) String() string { return "saved" }

// StatusFilter accepts runs whose result falls in Status.
// The zero value accepts stable runs.
type StatusFilter struct {
	Status BuildStatus
}

// IsSelectable implements RunFilter.
func (f StatusFilter) IsSelectable(run provider.Run, _ *Context) bool {
	return StatusSelector{Status: f.Status}.status().Matches(run)
}

func (f StatusFilter) String() string {
	return "status(" + string(StatusSelector{Status: f.Status}.status()) + ")"
}

// ParametersFilter accepts runs built with all of the given parameter values.
type ParametersFilter struct {
	params map[string]string
}

// NewParametersFilter copies params; at least one is required.
func NewParametersFilter(params map[string]string) (ParametersFilter, error) {
	if len(params) == 0 {
		return ParametersFilter{}, configErrorf("parameters", "at least one NAME=value pair is required")
	}
	cp := make(map[string]string, len(params))
	for name, value := range params {
		if strings.TrimSpace(name) == "" {
			return ParametersFilter{}, configErrorf("parameters", "parameter name must not be empty")
		}
		cp[name] = value
	}
	return ParametersFilter{params: cp}, nil
}

// ParseParameters reads NAME=value pairs, one per argument. Values may
// contain spaces and further '=' signs.
func ParseParameters(pairs ...string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, configErrorf("parameters", "malformed pair %q, want NAME=value", pair)
		}
		params[name] = value
	}
	return params, nil
}

// IsSelectable implements RunFilter. A run without one of the parameters
// does not match.
func (f ParametersFilter) IsSelectable(run provider.Run, sc *Context) bool {
	if len(f.params) == 0 {
		return false
	}
	for name, want := range f.params {
		got, ok := run.Parameters[name]
		if !ok || got != want {
			sc.Logger().Debug("run %s: parameter %s=%q does not match %q", run.Label(), name, got, want)
			return false
		}
	}
	return true
}

func (f ParametersFilter) String() string {
	pairs := make([]string, 0, len(f.params))
	for name, value := range f.params {
		pairs = append(pairs, name+"="+value)
	}
	sort.Strings(pairs)
	return "parameters(" + strings.Join(pairs, " ") + ")"
}

// AndFilter accepts runs accepted by every child. No children accepts all.
type AndFilter struct {
	Filters []RunFilter
}

// IsSelectable implements RunFilter.
func (f AndFilter) IsSelectable(run provider.Run, sc *Context) bool {
	for _, child := range f.Filters {
		if !child.IsSelectable(run, sc) {
			return false
		}
	}
	return true
}

func (f AndFilter) String() string {
	return "and(" + joinNames(f.Filters) + ")"
}

// OrFilter accepts runs accepted by any child. No children accepts none.
type OrFilter struct {
	Filters []RunFilter
}

// IsSelectable implements RunFilter.
func (f OrFilter) IsSelectable(run provider.Run, sc *Context) bool {
	for _, child := range f.Filters {
		if child.IsSelectable(run, sc) {
			return true
		}
	}
	return false
}

func (f OrFilter) String() string {
	return "or(" + joinNames(f.Filters) + ")"
}

// NotFilter inverts its child.
type NotFilter struct {
	Filter RunFilter
}

// NewNotFilter requires a child.
func NewNotFilter(child RunFilter) (NotFilter, error) {
	if child == nil {
		return NotFilter{}, configErrorf("not", "a filter to negate is required")
	}
	return NotFilter{Filter: child}, nil
}

// IsSelectable implements RunFilter.
func (f NotFilter) IsSelectable(run provider.Run, sc *Context) bool {
	if f.Filter == nil {
		return false
	}
	return !f.Filter.IsSelectable(run, sc)
}

func (f NotFilter) String() string {
	return "not(" + describe(f.Filter) + ")"
}

// And combines filters, dropping nils and NoFilter. It returns NoFilter when
// nothing is left and the single remaining filter when only one is.
func And(filters ...RunFilter) RunFilter {
	var kept []RunFilter
	for _, f := range filters {
		switch f.(type) {
		case nil, NoFilter:
			continue
		}
		kept = append(kept, f)
	}

	switch len(kept) {
	case 0:
		return NoFilter{}
	case 1:
		return kept[0]
	default:
		return AndFilter{Filters: kept}
	}
}

// describe names a selector or filter for logs.
func describe(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", v)
}

func joinNames[T any](items []T) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = describe(item)
	}
	return strings.Join(names, ", ")
}
