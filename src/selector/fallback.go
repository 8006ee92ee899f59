package selector

import (
	"runselect/src/provider"
)

// FallbackSelector tries its children in order and returns the first run any
// of them selects. Each child scans the whole history independently.
type FallbackSelector struct {
	children []RunSelector
}

// NewFallback requires at least one child and no nil children.
func NewFallback(children ...RunSelector) (*FallbackSelector, error) {
	if len(children) == 0 {
		return nil, configErrorf("fallback", "at least one selector is required")
	}
	for i, child := range children {
		if child == nil {
			return nil, configErrorf("fallback", "selector %d is nil", i)
		}
	}

	cp := make([]RunSelector, len(children))
	copy(cp, children)
	return &FallbackSelector{children: cp}, nil
}

// Select implements RunSelector.
func (f *FallbackSelector) Select(h History, filter RunFilter, sc *Context) (provider.Run, bool) {
	for i, child := range f.children {
		if run, ok := child.Select(h, filter, sc); ok {
			sc.Logger().Debug("fallback: selector %d of %d matched %s", i+1, len(f.children), run.Label())
			return run, true
		}
		sc.Logger().Debug("fallback: selector %d of %d found no candidate", i+1, len(f.children))
	}
	return provider.Run{}, false
}

func (f *FallbackSelector) String() string {
	return "fallback(" + joinNames(f.children) + ")"
}

// FilteredSelector narrows a selector with its own filter, on top of
// whatever filter the caller passes. It models a fallback entry that pairs a
// selector with a filter.
type FilteredSelector struct {
	Selector RunSelector
	Filter   RunFilter
}

// Filtered wraps sel with filter. A nil filter returns sel unchanged.
func Filtered(sel RunSelector, filter RunFilter) RunSelector {
	if filter == nil {
		return sel
	}
	return FilteredSelector{Selector: sel, Filter: filter}
}

// Select implements RunSelector.
func (f FilteredSelector) Select(h History, filter RunFilter, sc *Context) (provider.Run, bool) {
	return f.Selector.Select(h, And(filter, f.Filter), sc)
}

func (f FilteredSelector) String() string {
	return describe(f.Selector) + " where " + describe(f.Filter)
}
