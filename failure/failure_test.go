package failure

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	f, err := New("DivisionByZero", "division by zero")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Expected {
		t.Fatal("expected classification to default to expected")
	}
	if f.Severity != SeverityError {
		t.Fatalf("expected default severity %q, got %q", SeverityError, f.Severity)
	}
	if f.OccurredAt.IsZero() {
		t.Fatal("expected capture timestamp to be set")
	}
	if len(f.Trace) != 0 {
		t.Fatalf("expected empty trace, got %d frames", len(f.Trace))
	}
}

func TestNewValidation(t *testing.T) {
	var invalid *InvalidFailureError

	_, err := New("", "message")
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidFailureError for empty kind, got %v", err)
	}
	if invalid.Field != "kind" {
		t.Fatalf("expected field kind, got %s", invalid.Field)
	}

	_, err = New("Kind", "")
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidFailureError for empty message, got %v", err)
	}
	if invalid.Field != "message" {
		t.Fatalf("expected field message, got %s", invalid.Field)
	}
}

func TestNewOptions(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	trace := []Frame{{Function: "main.divide", File: "main.go", Line: 12}}

	f, err := New("DivisionByZero", "division by zero",
		Unexpected(),
		WithSeverity(SeverityCritical),
		WithTrace(trace),
		WithAttribute("environment", "test"),
		WithAttributes(map[string]any{"retries": 3}),
		At(ts),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Expected {
		t.Fatal("expected Unexpected() to clear the expected flag")
	}
	if f.Severity != SeverityCritical {
		t.Fatalf("expected critical severity, got %s", f.Severity)
	}
	if len(f.Trace) != 1 || f.Trace[0].Function != "main.divide" {
		t.Fatalf("unexpected trace: %+v", f.Trace)
	}
	if f.Attributes["environment"] != "test" {
		t.Fatalf("expected environment attribute, got %v", f.Attributes)
	}
	if f.Attributes["retries"] != 3 {
		t.Fatalf("expected retries attribute, got %v", f.Attributes)
	}
	if !f.OccurredAt.Equal(ts) {
		t.Fatalf("expected timestamp %v, got %v", ts, f.OccurredAt)
	}
}

func TestFromError(t *testing.T) {
	f, err := FromError(errors.New("uh oh, something broke"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Kind != "errors_errorstring" {
		t.Fatalf("unexpected kind: %s", f.Kind)
	}
	if f.Message != "uh oh, something broke" {
		t.Fatalf("unexpected message: %s", f.Message)
	}
	if len(f.Trace) == 0 {
		t.Fatal("expected stack frames to be captured")
	}
	if !strings.Contains(f.Trace[0].Function, "TestFromError") {
		t.Fatalf("expected innermost frame to be the caller, got %s", f.Trace[0].Function)
	}
}

func TestFromErrorNil(t *testing.T) {
	var invalid *InvalidFailureError
	if _, err := FromError(nil); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidFailureError for nil error, got %v", err)
	}
}

func TestCaptureTraceOrder(t *testing.T) {
	trace := traceFromHelper()
	if len(trace) < 2 {
		t.Fatalf("expected at least two frames, got %d", len(trace))
	}
	if !strings.Contains(trace[0].Function, "traceFromHelper") {
		t.Fatalf("expected innermost frame first, got %s", trace[0].Function)
	}
	if !strings.Contains(trace[1].Function, "TestCaptureTraceOrder") {
		t.Fatalf("expected caller as second frame, got %s", trace[1].Function)
	}
}

func traceFromHelper() []Frame {
	return CaptureTrace(0)
}

type timeoutError struct{ op string }

func (e *timeoutError) Error() string { return e.op + " timed out" }

func TestClassify(t *testing.T) {
	tcs := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "stdlib", err: errors.New("boom"), want: "errors_errorstring"},
		{name: "custom pointer type", err: &timeoutError{op: "dial"}, want: "failure_timeouterror"},
		{name: "wrapped", err: fmt.Errorf("outer: %w", &timeoutError{op: "read"}), want: "failure_timeouterror"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Fatalf("Classify() = %q, want %q", got, tc.want)
			}
		})
	}
}
