package sanitize

import (
	"strings"
	"testing"

	"runselect/src/contracts"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "color codes",
			input:    "\x1b[31mFAILED\x1b[0m: deploy",
			expected: "FAILED: deploy",
		},
		{
			name:     "no ANSI",
			input:    "plain run title",
			expected: "plain run title",
		},
		{
			name:     "cursor movement",
			input:    "progress\x1b[2Kdone",
			expected: "progressdone",
		},
		{
			name:     "buildkite timestamp marker",
			input:    "\x1b_bk;t=1765886936038\x07Bump deps",
			expected: "Bump deps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripANSI(tt.input)
			if result != tt.expected {
				t.Errorf("StripANSI(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"multi-line commit message", "Fix flaky test\n\nCloses #12", "Fix flaky test Closes #12"},
		{"control characters", "a\x00b\x07c", "abc"},
		{"escape codes and whitespace", "  \x1b[1mrelease\x1b[0m\t v2 ", "release v2"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input); got != tt.expected {
				t.Errorf("Text(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestText_Caps(t *testing.T) {
	got := Text(strings.Repeat("x", MaxTextLen+50))
	if n := len([]rune(got)); n != MaxTextLen+1 {
		t.Errorf("len = %d, want %d (cap plus ellipsis)", n, MaxTextLen+1)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("capped text should end with an ellipsis")
	}
}

func TestResult(t *testing.T) {
	orig := contracts.SelectionResult{
		Outcome: contracts.OutcomeSelected,
		Run: &contracts.RunRecord{
			Number:      3,
			DisplayName: "\x1b[32mgreen\x1b[0m build",
			Parameters:  map[string]string{"MESSAGE": "line one\nline two"},
		},
	}

	got := Result(orig)
	if got.Run.DisplayName != "green build" {
		t.Errorf("DisplayName = %q", got.Run.DisplayName)
	}
	if got.Run.Parameters["MESSAGE"] != "line one line two" {
		t.Errorf("MESSAGE = %q", got.Run.Parameters["MESSAGE"])
	}
	if orig.Run.DisplayName != "\x1b[32mgreen\x1b[0m build" || orig.Run.Parameters["MESSAGE"] != "line one\nline two" {
		t.Error("Result must not modify its input")
	}

	if Record(nil) != nil {
		t.Error("Record(nil) should be nil")
	}
}
