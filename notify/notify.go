// Package notify defines the delivery contract between the reporter and
// its sinks. Delivery faults are carried as data, never as panics or
// propagated errors: reporting a failure must not crash the application
// that is reporting it.
package notify

import (
	"context"

	"github.com/faultdesk/faultdesk-go/report"
)

// DeliveryResult is the final outcome of one delivery attempt.
type DeliveryResult struct {
	// Succeeded reports whether the sink accepted the report.
	Succeeded bool
	// Identifier is the sink-assigned notice id on success, empty on failure.
	Identifier string
	// Err describes the fault when Succeeded is false.
	Err error
}

// Delivered builds a successful result carrying the sink-assigned id.
func Delivered(identifier string) DeliveryResult {
	return DeliveryResult{Succeeded: true, Identifier: identifier}
}

// Failed builds a failed result carrying the delivery fault.
func Failed(err error) DeliveryResult {
	return DeliveryResult{Err: err}
}

// Sink is a destination capable of consuming formatted reports. Deliver
// must convert every transport fault into a failed DeliveryResult and must
// apply its own bounded timeout; it never blocks indefinitely.
type Sink interface {
	Deliver(ctx context.Context, rep report.Report) DeliveryResult
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, rep report.Report) DeliveryResult

// Deliver implements the Sink interface.
func (f SinkFunc) Deliver(ctx context.Context, rep report.Report) DeliveryResult {
	if f == nil {
		return Delivered("")
	}
	return f(ctx, rep)
}
