package selector

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SelectorSpec is the serialisable form of a selector. Kind picks the
// variant; only the fields that variant documents may be set.
//
//	kind: fallback
//	entries:
//	  - selector: {kind: status, status: UNSTABLE}
//	    filter: {kind: saved}
//	  - selector: {kind: status, status: STABLE}
type SelectorSpec struct {
	Kind      string              `yaml:"kind" json:"kind"`
	Status    string              `yaml:"status,omitempty" json:"status,omitempty"`       // status
	Number    string              `yaml:"number,omitempty" json:"number,omitempty"`       // buildNumber
	Permalink string              `yaml:"permalink,omitempty" json:"permalink,omitempty"` // permalink
	Entries   []FallbackEntrySpec `yaml:"entries,omitempty" json:"entries,omitempty"`     // fallback
}

// FallbackEntrySpec pairs a fallback child with an optional filter.
type FallbackEntrySpec struct {
	Selector SelectorSpec `yaml:"selector" json:"selector"`
	Filter   *FilterSpec  `yaml:"filter,omitempty" json:"filter,omitempty"`
}

// FilterSpec is the serialisable form of a filter.
type FilterSpec struct {
	Kind       string            `yaml:"kind" json:"kind"`
	Status     string            `yaml:"status,omitempty" json:"status,omitempty"`         // status
	Parameters map[string]string `yaml:"parameters,omitempty" json:"parameters,omitempty"` // parameters
	Filters    []FilterSpec      `yaml:"filters,omitempty" json:"filters,omitempty"`       // and, or
	Filter     *FilterSpec       `yaml:"filter,omitempty" json:"filter,omitempty"`         // not
}

// Policy is a selector plus the filter applied to everything it considers.
type Policy struct {
	Selector SelectorSpec `yaml:"selector" json:"selector"`
	Filter   *FilterSpec  `yaml:"filter,omitempty" json:"filter,omitempty"`
}

func (s SelectorSpec) setFields() []string {
	var fields []string
	if s.Status != "" {
		fields = append(fields, "status")
	}
	if s.Number != "" {
		fields = append(fields, "number")
	}
	if s.Permalink != "" {
		fields = append(fields, "permalink")
	}
	if len(s.Entries) > 0 {
		fields = append(fields, "entries")
	}
	return fields
}

func (s FilterSpec) setFields() []string {
	var fields []string
	if s.Status != "" {
		fields = append(fields, "status")
	}
	if len(s.Parameters) > 0 {
		fields = append(fields, "parameters")
	}
	if len(s.Filters) > 0 {
		fields = append(fields, "filters")
	}
	if s.Filter != nil {
		fields = append(fields, "filter")
	}
	return fields
}

// onlyFields fails when a field outside allowed is set.
func onlyFields(kind string, set []string, allowed ...string) error {
	for _, field := range set {
		ok := false
		for _, a := range allowed {
			if field == a {
				ok = true
				break
			}
		}
		if !ok {
			return configErrorf(kind, "field %q is not valid for kind %q", field, kind)
		}
	}
	return nil
}

// ParseSelectorSpec decodes a YAML or JSON selector. Unknown fields are
// rejected so that a misspelt key fails instead of being ignored.
func ParseSelectorSpec(data []byte) (SelectorSpec, error) {
	var spec SelectorSpec
	if err := decodeStrict(data, &spec); err != nil {
		return SelectorSpec{}, &ConfigError{Kind: "selector", Reason: "cannot decode", Err: err}
	}
	return spec, nil
}

// ParseFilterSpec decodes a YAML or JSON filter.
func ParseFilterSpec(data []byte) (FilterSpec, error) {
	var spec FilterSpec
	if err := decodeStrict(data, &spec); err != nil {
		return FilterSpec{}, &ConfigError{Kind: "filter", Reason: "cannot decode", Err: err}
	}
	return spec, nil
}

// ParsePolicy decodes a YAML or JSON policy document.
func ParsePolicy(data []byte) (Policy, error) {
	var p Policy
	if err := decodeStrict(data, &p); err != nil {
		return Policy{}, &ConfigError{Kind: "policy", Reason: "cannot decode", Err: err}
	}
	return p, nil
}

func decodeStrict(data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("empty document")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
