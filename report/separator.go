package report

import "strings"

// Separator defaults, matching the console grouping convention used
// throughout the client.
const (
	DefaultSeparatorWidth = 40
	DefaultSeparatorFill  = '-'
)

// Separator returns a 40-character separator line, with the label centered
// when one is supplied.
func Separator(label string) string {
	return SeparatorSized(label, DefaultSeparatorWidth, DefaultSeparatorFill)
}

// SeparatorSized builds a decorative separator line of the given width.
// An empty label yields a solid line. A label shorter than the width is
// centered with one space of margin on each side; a label at or beyond the
// width is returned unmodified rather than truncated.
func SeparatorSized(label string, width int, fill rune) string {
	if width <= 0 {
		width = DefaultSeparatorWidth
	}
	if fill == 0 {
		fill = DefaultSeparatorFill
	}
	if label == "" {
		return strings.Repeat(string(fill), width)
	}
	if len(label) >= width {
		return label
	}

	pad := width - (len(label) + 2)
	left := max(pad/2, 0)
	right := max(pad-left, 0)
	return strings.Repeat(string(fill), left) + " " + label + " " + strings.Repeat(string(fill), right)
}
