package selector

import (
	"errors"
	"strings"
	"testing"
)

const fallbackPolicyYAML = `
selector:
  kind: fallback
  entries:
    - selector: {kind: status, status: UNSTABLE}
    - selector: {kind: status, status: STABLE}
`

func TestParsePolicy_YAML(t *testing.T) {
	p, err := ParsePolicy([]byte(fallbackPolicyYAML))
	if err != nil {
		t.Fatalf("ParsePolicy() error = %v", err)
	}

	sel, filter, err := Default.BuildPolicy(p)
	if err != nil {
		t.Fatalf("BuildPolicy() error = %v", err)
	}
	if _, ok := filter.(NoFilter); !ok {
		t.Errorf("filter = %#v, want NoFilter", filter)
	}

	run, ok := sel.Select(scenarioHistory(), filter, nil)
	if !ok || run.ID != "c" {
		t.Errorf("Select() = %s, %v, want c", run.ID, ok)
	}
}

func TestParsePolicy_JSON(t *testing.T) {
	doc := `{"selector": {"kind": "status", "status": "STABLE"}, "filter": {"kind": "saved"}}`

	p, err := ParsePolicy([]byte(doc))
	if err != nil {
		t.Fatalf("ParsePolicy() error = %v", err)
	}
	sel, filter, err := Default.BuildPolicy(p)
	if err != nil {
		t.Fatalf("BuildPolicy() error = %v", err)
	}

	// B is the only stable run and it is not kept.
	if run, ok := sel.Select(scenarioHistory(), filter, nil); ok {
		t.Errorf("Select() = %s, want no candidate", run.ID)
	}
}

func TestParseSelectorSpec_FallbackEntriesWithFilters(t *testing.T) {
	doc := `
kind: fallback
entries:
  - selector: {kind: status, status: STABLE}
    filter: {kind: saved}
  - selector: {kind: buildNumber, number: "1"}
`
	spec, err := ParseSelectorSpec([]byte(doc))
	if err != nil {
		t.Fatalf("ParseSelectorSpec() error = %v", err)
	}
	if len(spec.Entries) != 2 || spec.Entries[0].Filter == nil {
		t.Fatalf("spec = %+v, want two entries, the first filtered", spec)
	}

	sel, err := Default.BuildSelector(spec)
	if err != nil {
		t.Fatalf("BuildSelector() error = %v", err)
	}
	run, ok := sel.Select(scenarioHistory(), nil, nil)
	if !ok || run.ID != "a" {
		t.Errorf("Select() = %s, %v, want a", run.ID, ok)
	}
}

func TestParseSelectorSpec_RejectsUnknownFields(t *testing.T) {
	doc := `
kind: fallback
entries:
  - selector: {kind: status, staus: UNSTABLE}
`
	_, err := ParseSelectorSpec([]byte(doc))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("ParseSelectorSpec() error = %v, want ErrInvalidConfig", err)
	}
	if !strings.Contains(err.Error(), "staus") {
		t.Errorf("error %q should name the unknown field", err)
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	if _, err := ParseSelectorSpec([]byte("  \n")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParseSelectorSpec() error = %v", err)
	}
	if _, err := ParseFilterSpec(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParseFilterSpec() error = %v", err)
	}
	if _, err := ParsePolicy([]byte("")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParsePolicy() error = %v", err)
	}
}

func TestParseFilterSpec_Nested(t *testing.T) {
	doc := `
kind: and
filters:
  - kind: parameters
    parameters: {BRANCH: main}
  - kind: not
    filter: {kind: saved}
`
	spec, err := ParseFilterSpec([]byte(doc))
	if err != nil {
		t.Fatalf("ParseFilterSpec() error = %v", err)
	}
	filter, err := Default.BuildFilter(spec)
	if err != nil {
		t.Fatalf("BuildFilter() error = %v", err)
	}

	kept := runC
	kept.Parameters = map[string]string{"BRANCH": "main"}
	plain := runB
	plain.Parameters = map[string]string{"BRANCH": "main"}

	if filter.IsSelectable(kept, nil) {
		t.Error("kept run should be rejected by not(saved)")
	}
	if !filter.IsSelectable(plain, nil) {
		t.Error("unkept run on main should be accepted")
	}
}
