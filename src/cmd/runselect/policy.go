package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"runselect/src/selector"
)

// policyFlags are the selection flags shared by select and browse.
type policyFlags struct {
	configFile   string
	statuses     []string
	number       string
	permalink    string
	saved        bool
	params       []string
	filterStatus string
}

func (f *policyFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.configFile, "config", "c", "", "Policy file (YAML or JSON)")
	flags.StringSliceVarP(&f.statuses, "status", "s", nil, "Select the newest run with this build status; repeat or comma-separate to fall back in order (default STABLE)")
	flags.StringVar(&f.number, "number", "", "Select a specific run by number or ID")
	flags.StringVar(&f.permalink, "permalink", "", "Select a permalink run, e.g. lastSuccessfulBuild")
	flags.BoolVar(&f.saved, "saved", false, "Only consider runs marked keep-forever")
	flags.StringArrayVarP(&f.params, "param", "p", nil, "Only consider runs built with NAME=value (repeatable)")
	flags.StringVar(&f.filterStatus, "only", "", "Only consider runs with this build status")
}

// policy builds the policy from a config file or from the shortcut flags.
func (f *policyFlags) policy() (selector.Policy, error) {
	if f.configFile != "" {
		if f.selectorSet() || f.filterSet() {
			return selector.Policy{}, fmt.Errorf("--config cannot be combined with selector or filter flags")
		}
		data, err := os.ReadFile(f.configFile)
		if err != nil {
			return selector.Policy{}, fmt.Errorf("failed to read policy: %w", err)
		}
		return selector.ParsePolicy(data)
	}

	sel, err := f.selectorSpec()
	if err != nil {
		return selector.Policy{}, err
	}
	filter, err := f.filterSpec()
	if err != nil {
		return selector.Policy{}, err
	}
	return selector.Policy{Selector: sel, Filter: filter}, nil
}

func (f *policyFlags) selectorSet() bool {
	return len(f.statuses) > 0 || f.number != "" || f.permalink != ""
}

func (f *policyFlags) filterSet() bool {
	return f.saved || len(f.params) > 0 || f.filterStatus != ""
}

func (f *policyFlags) selectorSpec() (selector.SelectorSpec, error) {
	set := 0
	for _, ok := range []bool{len(f.statuses) > 0, f.number != "", f.permalink != ""} {
		if ok {
			set++
		}
	}
	if set > 1 {
		return selector.SelectorSpec{}, fmt.Errorf("--status, --number and --permalink are mutually exclusive")
	}

	switch {
	case f.number != "":
		return selector.SelectorSpec{Kind: "buildNumber", Number: f.number}, nil
	case f.permalink != "":
		return selector.SelectorSpec{Kind: "permalink", Permalink: f.permalink}, nil
	case len(f.statuses) > 1:
		spec := selector.SelectorSpec{Kind: "fallback"}
		for _, status := range f.statuses {
			spec.Entries = append(spec.Entries, selector.FallbackEntrySpec{
				Selector: selector.SelectorSpec{Kind: "status", Status: status},
			})
		}
		return spec, nil
	case len(f.statuses) == 1:
		return selector.SelectorSpec{Kind: "status", Status: f.statuses[0]}, nil
	default:
		return selector.SelectorSpec{Kind: "status"}, nil
	}
}

func (f *policyFlags) filterSpec() (*selector.FilterSpec, error) {
	var filters []selector.FilterSpec

	if f.saved {
		filters = append(filters, selector.FilterSpec{Kind: "saved"})
	}
	if f.filterStatus != "" {
		filters = append(filters, selector.FilterSpec{Kind: "status", Status: f.filterStatus})
	}
	if len(f.params) > 0 {
		params, err := selector.ParseParameters(f.params...)
		if err != nil {
			return nil, fmt.Errorf("--param: %w", err)
		}
		filters = append(filters, selector.FilterSpec{Kind: "parameters", Parameters: params})
	}

	switch len(filters) {
	case 0:
		return nil, nil
	case 1:
		return &filters[0], nil
	default:
		return &selector.FilterSpec{Kind: "and", Filters: filters}, nil
	}
}

// describePolicy renders a policy the way the selector logs it.
func describePolicy(reg *selector.Registry, p selector.Policy) string {
	sel, filter, err := reg.BuildPolicy(p)
	if err != nil {
		return "invalid policy"
	}
	if _, ok := filter.(selector.NoFilter); ok {
		return fmt.Sprint(sel)
	}
	return fmt.Sprintf("%v where %v", sel, filter)
}
