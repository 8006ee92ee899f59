// Package sanitize cleans text that CI hosts attach to runs (commit
// messages, run titles, parameter values) before it is handed to an LLM
// through the MCP tools. The TUI does its own terminal handling.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"

	"runselect/src/contracts"
)

var (
	// ANSI escape codes: \x1b[...m (SGR sequences)
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

	// Buildkite timestamp markers: \x1b_bk;t=...\x07
	buildkiteTimestamp = regexp.MustCompile(`\x1b_bk;t=[0-9]+\x07`)
)

// MaxTextLen bounds a single sanitized value, in runes.
const MaxTextLen = 500

// StripANSI removes ANSI escape codes and Buildkite timestamp markers.
func StripANSI(s string) string {
	s = buildkiteTimestamp.ReplaceAllString(s, "")
	s = ansiPattern.ReplaceAllString(s, "")
	return s
}

// Text strips escape codes, drops other control characters, collapses
// whitespace and caps the result at MaxTextLen runes.
func Text(s string) string {
	s = StripANSI(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")

	if r := []rune(s); len(r) > MaxTextLen {
		s = string(r[:MaxTextLen]) + "…"
	}
	return s
}

// Record returns a copy of rec with its free-text fields cleaned.
func Record(rec *contracts.RunRecord) *contracts.RunRecord {
	if rec == nil {
		return nil
	}
	out := *rec
	out.DisplayName = Text(rec.DisplayName)
	if rec.Parameters != nil {
		out.Parameters = make(map[string]string, len(rec.Parameters))
		for k, v := range rec.Parameters {
			out.Parameters[Text(k)] = Text(v)
		}
	}
	return &out
}

// Result returns a copy of result with its run and error cleaned.
func Result(result contracts.SelectionResult) contracts.SelectionResult {
	result.Run = Record(result.Run)
	result.Error = StripANSI(result.Error)
	return result
}
