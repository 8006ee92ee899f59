package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// VisualWidth returns the display width of text, accounting for multi-byte characters
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// CleanText strips terminal escape sequences and flattens whitespace.
// Host-supplied text (commit messages, run titles) often carries both.
func CleanText(s string) string {
	return strings.Join(strings.Fields(ansi.Strip(s)), " ")
}

// Truncate truncates text to maxLen characters (visual width) with optional ellipsis
func Truncate(s string, maxLen int, ellipsis bool) string {
	s = strings.TrimSpace(s)
	if maxLen <= 0 {
		return ""
	}

	if VisualWidth(s) > maxLen {
		if ellipsis && maxLen > 3 {
			return runewidth.Truncate(s, maxLen-3, "") + "..."
		}
		return runewidth.Truncate(s, maxLen, "")
	}
	return s
}

// TruncateAndPad truncates text with optional ellipsis and pads to exact width
// Used for table cells to maintain consistent column widths
func TruncateAndPad(s string, width int, ellipsis bool) string {
	s = Truncate(s, width, ellipsis)
	if w := VisualWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// Wrap breaks text into lines no wider than width, on word boundaries
// where possible. Words longer than width are split.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0

	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, word := range strings.Fields(text) {
		for VisualWidth(word) > width {
			if lineWidth > 0 {
				flush()
			}
			chunk := runewidth.Truncate(word, width, "")
			if chunk == "" {
				// a single rune wider than width
				chunk = string([]rune(word)[:1])
			}
			line.WriteString(chunk)
			flush()
			word = word[len(chunk):]
		}
		if word == "" {
			continue
		}

		w := VisualWidth(word)
		switch {
		case lineWidth == 0:
		case lineWidth+1+w <= width:
			line.WriteByte(' ')
			lineWidth++
		default:
			flush()
		}
		line.WriteString(word)
		lineWidth += w
	}
	if lineWidth > 0 {
		flush()
	}

	if len(lines) == 0 {
		return text
	}
	return strings.Join(lines, "\n")
}
