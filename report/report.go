// Package report renders captured failures into stable textual reports.
// Formatting is pure: the same failure always yields byte-identical text.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/faultdesk/faultdesk-go/failure"
)

// Report is the serialized form of a failure, handed to a sink and then
// discarded. Treat it as immutable once built.
type Report struct {
	// Text is the rendered report: classification header, trace lines, and
	// attribute block.
	Text string

	Kind       string
	Message    string
	Expected   bool
	Severity   string
	OccurredAt time.Time
	Trace      []failure.Frame
	Attributes map[string]any
}

// Format renders a failure. The header is
// "[EXPECTED|UNEXPECTED] {kind}: {message}", followed by one trace line per
// frame in call order, then the attribute block in sorted-key order. An
// empty trace is omitted entirely. Returns *failure.InvalidFailureError
// when kind or message is empty.
func Format(f failure.Failure) (Report, error) {
	return format(f, "")
}

// FormatSection is Format with a separator header line prepended, used to
// visually group related reports in console output.
func FormatSection(f failure.Failure, label string) (Report, error) {
	return format(f, Separator(label))
}

func format(f failure.Failure, header string) (Report, error) {
	if f.Kind == "" {
		return Report{}, &failure.InvalidFailureError{Field: "kind"}
	}
	if f.Message == "" {
		return Report{}, &failure.InvalidFailureError{Field: "message"}
	}

	var b strings.Builder
	if header != "" {
		b.WriteString(header)
		b.WriteByte('\n')
	}

	classification := "EXPECTED"
	if !f.Expected {
		classification = "UNEXPECTED"
	}
	fmt.Fprintf(&b, "[%s] %s: %s", classification, f.Kind, f.Message)

	// Frame order is preserved exactly as captured, innermost first.
	for _, fr := range f.Trace {
		b.WriteByte('\n')
		writeFrame(&b, fr)
	}

	writeAttributes(&b, f.Attributes)

	return Report{
		Text:       b.String(),
		Kind:       f.Kind,
		Message:    f.Message,
		Expected:   f.Expected,
		Severity:   f.Severity,
		OccurredAt: f.OccurredAt,
		Trace:      cloneTrace(f.Trace),
		Attributes: cloneAttributes(f.Attributes),
	}, nil
}

func writeFrame(b *strings.Builder, fr failure.Frame) {
	b.WriteString("\tat ")
	b.WriteString(fr.Function)
	if fr.File != "" {
		fmt.Fprintf(b, " (%s:%d)", fr.File, fr.Line)
	}
}

func cloneTrace(trace []failure.Frame) []failure.Frame {
	if len(trace) == 0 {
		return nil
	}
	out := make([]failure.Frame, len(trace))
	copy(out, trace)
	return out
}

func cloneAttributes(attrs map[string]any) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
