package selector

// RegisterBuiltins adds the built-in selector and filter kinds to r.
func RegisterBuiltins(r *Registry) {
	r.RegisterSelector("status", "Latest run with status", newStatusFromSpec)
	r.RegisterSelector("buildNumber", "Specific run", newSpecificFromSpec)
	r.RegisterSelector("permalink", "Run by permalink", newPermalinkFromSpec)
	r.RegisterSelector("fallback", "First selector that finds a run", newFallbackFromSpec)

	r.RegisterFilter("none", "No filter", newNoFilterFromSpec)
	r.RegisterFilter("saved", "Kept forever", newSavedFromSpec)
	r.RegisterFilter("status", "Run status", newStatusFilterFromSpec)
	r.RegisterFilter("parameters", "Build parameters", newParametersFromSpec)
	r.RegisterFilter("and", "All of", newAndFromSpec)
	r.RegisterFilter("or", "Any of", newOrFromSpec)
	r.RegisterFilter("not", "Not", newNotFromSpec)
}

func newStatusFromSpec(_ *Registry, spec SelectorSpec) (RunSelector, error) {
	if err := onlyFields(spec.Kind, spec.setFields(), "status"); err != nil {
		return nil, err
	}
	return NewStatusSelector(BuildStatus(spec.Status))
}

func newSpecificFromSpec(_ *Registry, spec SelectorSpec) (RunSelector, error) {
	if err := onlyFields(spec.Kind, spec.setFields(), "number"); err != nil {
		return nil, err
	}
	return NewSpecificSelector(spec.Number)
}

func newPermalinkFromSpec(_ *Registry, spec SelectorSpec) (RunSelector, error) {
	if err := onlyFields(spec.Kind, spec.setFields(), "permalink"); err != nil {
		return nil, err
	}
	return NewPermalinkSelector(Permalink(spec.Permalink))
}

func newFallbackFromSpec(r *Registry, spec SelectorSpec) (RunSelector, error) {
	if err := onlyFields(spec.Kind, spec.setFields(), "entries"); err != nil {
		return nil, err
	}

	children := make([]RunSelector, 0, len(spec.Entries))
	for _, entry := range spec.Entries {
		child, err := r.BuildSelector(entry.Selector)
		if err != nil {
			return nil, err
		}
		if entry.Filter != nil {
			filter, err := r.BuildFilter(*entry.Filter)
			if err != nil {
				return nil, err
			}
			child = Filtered(child, filter)
		}
		children = append(children, child)
	}

	fallback, err := NewFallback(children...)
	if err != nil {
		return nil, err
	}
	return fallback, nil
}

func newNoFilterFromSpec(_ *Registry, spec FilterSpec) (RunFilter, error) {
	if err := onlyFields(spec.Kind, spec.setFields()); err != nil {
		return nil, err
	}
	return NoFilter{}, nil
}

func newSavedFromSpec(_ *Registry, spec FilterSpec) (RunFilter, error) {
	if err := onlyFields(spec.Kind, spec.setFields()); err != nil {
		return nil, err
	}
	return SavedFilter{}, nil
}

func newStatusFilterFromSpec(_ *Registry, spec FilterSpec) (RunFilter, error) {
	if err := onlyFields(spec.Kind, spec.setFields(), "status"); err != nil {
		return nil, err
	}
	status, err := ParseBuildStatus(spec.Status)
	if err != nil {
		return nil, err
	}
	return StatusFilter{Status: status}, nil
}

func newParametersFromSpec(_ *Registry, spec FilterSpec) (RunFilter, error) {
	if err := onlyFields(spec.Kind, spec.setFields(), "parameters"); err != nil {
		return nil, err
	}
	return NewParametersFilter(spec.Parameters)
}

func newAndFromSpec(r *Registry, spec FilterSpec) (RunFilter, error) {
	if err := onlyFields(spec.Kind, spec.setFields(), "filters"); err != nil {
		return nil, err
	}
	filters, err := r.buildFilters(spec.Filters)
	if err != nil {
		return nil, err
	}
	return AndFilter{Filters: filters}, nil
}

func newOrFromSpec(r *Registry, spec FilterSpec) (RunFilter, error) {
	if err := onlyFields(spec.Kind, spec.setFields(), "filters"); err != nil {
		return nil, err
	}
	if len(spec.Filters) == 0 {
		return nil, configErrorf("or", "at least one filter is required")
	}
	filters, err := r.buildFilters(spec.Filters)
	if err != nil {
		return nil, err
	}
	return OrFilter{Filters: filters}, nil
}

func newNotFromSpec(r *Registry, spec FilterSpec) (RunFilter, error) {
	if err := onlyFields(spec.Kind, spec.setFields(), "filter"); err != nil {
		return nil, err
	}
	if spec.Filter == nil {
		return nil, configErrorf("not", "a filter to negate is required")
	}
	child, err := r.BuildFilter(*spec.Filter)
	if err != nil {
		return nil, err
	}
	return NewNotFilter(child)
}
