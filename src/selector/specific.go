package selector

import (
	"strconv"
	"strings"

	"runselect/src/provider"
)

// SpecificSelector picks the run with a given number or ID.
type SpecificSelector struct {
	Number string
}

// NewSpecificSelector accepts "12", "#12" or a provider run ID.
func NewSpecificSelector(number string) (SpecificSelector, error) {
	number = strings.TrimPrefix(strings.TrimSpace(number), "#")
	if number == "" {
		return SpecificSelector{}, configErrorf("buildNumber", "a build number is required")
	}
	return SpecificSelector{Number: number}, nil
}

// Select implements RunSelector.
func (s SpecificSelector) Select(h History, filter RunFilter, sc *Context) (provider.Run, bool) {
	want := strings.TrimPrefix(s.Number, "#")
	if want == "" {
		return provider.Run{}, false
	}
	return scan(h, func(run provider.Run) bool {
		return strconv.Itoa(run.Number) == want || run.ID == want
	}, filter, sc)
}

func (s SpecificSelector) String() string {
	return "buildNumber(" + s.Number + ")"
}
