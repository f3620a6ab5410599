package notify

import (
	"context"
	"fmt"

	"github.com/faultdesk/faultdesk-go/report"
)

// Delivery is a future for an in-flight notification. It moves from
// pending to exactly one final result; intermediate retries inside a sink
// are not observable.
type Delivery struct {
	done   chan struct{}
	result DeliveryResult
}

// NewDelivery returns a pending delivery and the resolve function that
// completes it. Resolve must be called exactly once.
func NewDelivery() (*Delivery, func(DeliveryResult)) {
	d := &Delivery{done: make(chan struct{})}
	return d, func(res DeliveryResult) {
		d.result = res
		close(d.done)
	}
}

// Done returns a channel closed once the delivery has resolved.
func (d *Delivery) Done() <-chan struct{} {
	return d.done
}

// Result blocks until the delivery resolves and returns the final outcome.
func (d *Delivery) Result() DeliveryResult {
	<-d.done
	return d.result
}

// Wait blocks until the delivery resolves or the context ends. A caller
// that abandons a pending delivery gets a failed result carrying the
// context error; the underlying attempt still runs to completion.
func (d *Delivery) Wait(ctx context.Context) DeliveryResult {
	select {
	case <-d.done:
		return d.result
	case <-ctx.Done():
		return Failed(ctx.Err())
	}
}

// Resolved returns an already-completed delivery, used for synchronous
// sinks and short-circuit paths.
func Resolved(res DeliveryResult) *Delivery {
	d := &Delivery{done: make(chan struct{}), result: res}
	close(d.done)
	return d
}

// Dispatch runs a sink asynchronously and returns the pending delivery.
// A panicking sink resolves the delivery as failed instead of unwinding
// into the caller.
func Dispatch(ctx context.Context, sink Sink, rep report.Report) *Delivery {
	d, resolve := NewDelivery()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resolve(Failed(fmt.Errorf("sink panic: %v", r)))
			}
		}()
		resolve(sink.Deliver(ctx, rep))
	}()
	return d
}
