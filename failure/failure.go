// Package failure defines the captured-failure model shared by the
// formatter, the reporter, and every delivery sink.
package failure

import (
	"fmt"
	"time"
)

// Severity levels recognised by downstream sinks.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Frame is a single stack frame, innermost first in a trace.
type Frame struct {
	Function string
	File     string
	Line     int
}

// Failure is one observed error instance plus the context captured with it.
// Callers own the value; formatters and sinks receive copies and retain
// nothing beyond the call.
type Failure struct {
	// Kind identifies the failure category, typically the runtime type name.
	Kind string
	// Message is the human-readable description.
	Message string
	// Trace holds stack frames in call order, innermost first. May be empty
	// for logic-level failures with no runtime stack.
	Trace []Frame
	// Expected records whether the caller anticipated this failure as a
	// normal control-flow outcome. Defaults to true; see Unexpected.
	Expected bool
	// Severity tags alerting priority for sinks that understand it.
	Severity string
	// OccurredAt is when the failure was captured.
	OccurredAt time.Time
	// Attributes carries open-ended contextual metadata (environment,
	// affected file, parameters).
	Attributes map[string]any
}

// InvalidFailureError reports a construction-time contract violation:
// a Failure built with an empty kind or message.
type InvalidFailureError struct {
	Field string
}

func (e *InvalidFailureError) Error() string {
	return fmt.Sprintf("invalid failure: %s must not be empty", e.Field)
}

// Option mutates a Failure during construction.
type Option func(*Failure)

// Unexpected marks the failure as a genuine defect rather than an
// anticipated outcome. Without it a failure is classified expected.
func Unexpected() Option {
	return func(f *Failure) { f.Expected = false }
}

// WithSeverity overrides the default "error" severity.
func WithSeverity(severity string) Option {
	return func(f *Failure) { f.Severity = severity }
}

// WithTrace attaches stack frames. Frame order is preserved exactly as
// supplied; the formatter never re-sorts it.
func WithTrace(trace []Frame) Option {
	return func(f *Failure) { f.Trace = trace }
}

// WithAttribute adds one contextual key/value.
func WithAttribute(key string, value any) Option {
	return func(f *Failure) {
		if f.Attributes == nil {
			f.Attributes = make(map[string]any)
		}
		f.Attributes[key] = value
	}
}

// WithAttributes merges contextual metadata into the failure.
func WithAttributes(attrs map[string]any) Option {
	return func(f *Failure) {
		if len(attrs) == 0 {
			return
		}
		if f.Attributes == nil {
			f.Attributes = make(map[string]any, len(attrs))
		}
		for k, v := range attrs {
			f.Attributes[k] = v
		}
	}
}

// At overrides the capture timestamp. Useful when replaying failures
// recorded elsewhere.
func At(ts time.Time) Option {
	return func(f *Failure) { f.OccurredAt = ts }
}

// New builds a Failure. Kind and message are required; an empty value for
// either returns an *InvalidFailureError. Expected defaults to true and
// severity to "error".
func New(kind, message string, opts ...Option) (Failure, error) {
	if kind == "" {
		return Failure{}, &InvalidFailureError{Field: "kind"}
	}
	if message == "" {
		return Failure{}, &InvalidFailureError{Field: "message"}
	}

	f := Failure{
		Kind:       kind,
		Message:    message,
		Expected:   true,
		Severity:   SeverityError,
		OccurredAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f, nil
}

// FromError builds a Failure from a Go error: the kind is the normalized
// innermost type name, the message is err.Error(), and the current
// goroutine's stack is captured. Options apply after capture.
func FromError(err error, opts ...Option) (Failure, error) {
	if err == nil {
		return Failure{}, &InvalidFailureError{Field: "kind"}
	}
	base := []Option{WithTrace(CaptureTrace(1))}
	return New(Classify(err), err.Error(), append(base, opts...)...)
}
