package selector

import (
	"fmt"
	"sort"
	"sync"
)

// SelectorFactory builds a selector from its spec. The registry is passed
// so that composite kinds can build their children.
type SelectorFactory func(r *Registry, spec SelectorSpec) (RunSelector, error)

// FilterFactory builds a filter from its spec.
type FilterFactory func(r *Registry, spec FilterSpec) (RunFilter, error)

// Descriptor describes a registered kind.
type Descriptor struct {
	Symbol      string `json:"symbol"`
	DisplayName string `json:"display_name"`
}

type selectorEntry struct {
	Descriptor
	factory SelectorFactory
}

type filterEntry struct {
	Descriptor
	factory FilterFactory
}

// Registry maps kind symbols to factories.
type Registry struct {
	mu        sync.RWMutex
	selectors map[string]selectorEntry
	filters   map[string]filterEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		selectors: make(map[string]selectorEntry),
		filters:   make(map[string]filterEntry),
	}
}

// Default holds the built-in kinds.
var Default = NewRegistry()

func init() {
	RegisterBuiltins(Default)
}

// RegisterSelector adds or replaces a selector kind.
func (r *Registry) RegisterSelector(symbol, displayName string, factory SelectorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selectors[symbol] = selectorEntry{Descriptor{symbol, displayName}, factory}
}

// RegisterFilter adds or replaces a filter kind.
func (r *Registry) RegisterFilter(symbol, displayName string, factory FilterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters[symbol] = filterEntry{Descriptor{symbol, displayName}, factory}
}

// Selectors lists registered selector kinds sorted by symbol.
func (r *Registry) Selectors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.selectors))
	for _, e := range r.selectors {
		out = append(out, e.Descriptor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Filters lists registered filter kinds sorted by symbol.
func (r *Registry) Filters() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.filters))
	for _, e := range r.filters {
		out = append(out, e.Descriptor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// BuildSelector constructs the selector spec describes.
func (r *Registry) BuildSelector(spec SelectorSpec) (RunSelector, error) {
	r.mu.RLock()
	entry, ok := r.selectors[spec.Kind]
	r.mu.RUnlock()

	if !ok {
		return nil, &ConfigError{Kind: "selector", Reason: fmt.Sprintf("kind %q", spec.Kind), Err: ErrUnknownKind}
	}
	return entry.factory(r, spec)
}

// BuildFilter constructs the filter spec describes.
func (r *Registry) BuildFilter(spec FilterSpec) (RunFilter, error) {
	r.mu.RLock()
	entry, ok := r.filters[spec.Kind]
	r.mu.RUnlock()

	if !ok {
		return nil, &ConfigError{Kind: "filter", Reason: fmt.Sprintf("kind %q", spec.Kind), Err: ErrUnknownKind}
	}
	return entry.factory(r, spec)
}

// BuildPolicy constructs a selector and filter. The filter is NoFilter when
// the policy has none.
func (r *Registry) BuildPolicy(p Policy) (RunSelector, RunFilter, error) {
	sel, err := r.BuildSelector(p.Selector)
	if err != nil {
		return nil, nil, err
	}
	if p.Filter == nil {
		return sel, NoFilter{}, nil
	}
	filter, err := r.BuildFilter(*p.Filter)
	if err != nil {
		return nil, nil, err
	}
	return sel, filter, nil
}

func (r *Registry) buildFilters(specs []FilterSpec) ([]RunFilter, error) {
	filters := make([]RunFilter, 0, len(specs))
	for _, spec := range specs {
		f, err := r.BuildFilter(spec)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}
