// Package reporter wires the capture pipeline together: classify, format,
// throttle, and fan out to every configured sink. A Reporter is constructed
// once at process start and passed to call sites explicitly; there is no
// ambient global instance.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/faultdesk/faultdesk-go/dedup"
	"github.com/faultdesk/faultdesk-go/failure"
	"github.com/faultdesk/faultdesk-go/metrics"
	"github.com/faultdesk/faultdesk-go/notify"
	"github.com/faultdesk/faultdesk-go/report"
)

const defaultMaxConcurrent = 4

// SinkRegistration pairs a sink implementation with a human-readable name
// for logging and metrics tags.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// Options configures a Reporter.
type Options struct {
	Logger *slog.Logger
	Sinks  []SinkRegistration

	// Throttle suppresses repeated expected failures within ThrottleWindow.
	// Unexpected failures are never throttled.
	Throttle       dedup.Store
	ThrottleWindow time.Duration

	// Metrics receives per-sink delivery counters and timings.
	Metrics metrics.Sink

	// MaxConcurrent bounds concurrent sink deliveries per notification.
	MaxConcurrent int
}

// Reporter dispatches captured failures to all registered sinks.
type Reporter struct {
	logger         *slog.Logger
	sinks          []SinkRegistration
	throttle       dedup.Store
	throttleWindow time.Duration
	metrics        metrics.Sink
	maxConcurrent  int
}

// New constructs a Reporter.
func New(opts Options) *Reporter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "reporter")
	}

	var sinks []SinkRegistration
	for _, entry := range opts.Sinks {
		if entry.Sink == nil {
			continue
		}
		name := entry.Name
		if name == "" {
			name = "sink"
		}
		sinks = append(sinks, SinkRegistration{Name: name, Sink: entry.Sink})
	}

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	return &Reporter{
		logger:         logger,
		sinks:          sinks,
		throttle:       opts.Throttle,
		throttleWindow: opts.ThrottleWindow,
		metrics:        opts.Metrics,
		maxConcurrent:  maxConcurrent,
	}
}

// Enabled reports whether the reporter has any active sinks.
func (r *Reporter) Enabled() bool {
	return len(r.sinks) > 0
}

// Notify formats the failure and fans it out asynchronously, returning a
// delivery future that resolves once every sink has finished. The returned
// error is non-nil only for construction-contract violations (empty kind or
// message); delivery faults resolve the future as failed instead.
func (r *Reporter) Notify(ctx context.Context, f failure.Failure) (*notify.Delivery, error) {
	rep, err := report.Format(f)
	if err != nil {
		return nil, err
	}

	if !r.Enabled() {
		return notify.Resolved(notify.Delivered("")), nil
	}

	if r.suppressed(ctx, f) {
		r.logger.DebugContext(ctx, "suppressing duplicate failure",
			"kind", f.Kind,
			"window", r.throttleWindow,
		)
		r.count("notify.suppressed", map[string]string{"kind": f.Kind})
		return notify.Resolved(notify.Delivered("")), nil
	}

	d, resolve := notify.NewDelivery()
	go func() {
		resolve(r.fanOut(ctx, rep))
	}()
	return d, nil
}

// NotifySync is the blocking variant of Notify.
func (r *Reporter) NotifySync(ctx context.Context, f failure.Failure) (notify.DeliveryResult, error) {
	d, err := r.Notify(ctx, f)
	if err != nil {
		return notify.DeliveryResult{}, err
	}
	return d.Result(), nil
}

// suppressed consults the throttle store for expected failures. Store
// errors fail open: a broken throttle must not stop reporting.
func (r *Reporter) suppressed(ctx context.Context, f failure.Failure) bool {
	if r.throttle == nil || r.throttleWindow <= 0 || !f.Expected {
		return false
	}

	seen, err := r.throttle.Seen(ctx, dedup.Key(f.Kind, f.Message), r.throttleWindow)
	if err != nil {
		r.logger.WarnContext(ctx, "throttle store error, delivering anyway",
			"kind", f.Kind,
			"error", err,
		)
		return false
	}
	return seen
}

// fanOut delivers the report to every sink with bounded concurrency and
// aggregates the outcomes: the notification succeeded when at least one
// sink accepted it, and its identifier is the first sink-assigned id.
func (r *Reporter) fanOut(ctx context.Context, rep report.Report) notify.DeliveryResult {
	results := make([]notify.DeliveryResult, len(r.sinks))

	var g errgroup.Group
	g.SetLimit(r.maxConcurrent)
	for i, entry := range r.sinks {
		i, entry := i, entry
		g.Go(func() error {
			start := time.Now()
			results[i] = deliver(ctx, entry.Sink, rep)
			r.observe(ctx, entry.Name, rep, results[i], time.Since(start))
			return nil
		})
	}
	// Sinks report faults as data, never as errors.
	_ = g.Wait()

	return aggregate(r.sinks, results)
}

// deliver shields the fan-out from misbehaving sinks: a panic resolves as
// a failed result instead of unwinding into the reporting application.
func deliver(ctx context.Context, sink notify.Sink, rep report.Report) (res notify.DeliveryResult) {
	defer func() {
		if rec := recover(); rec != nil {
			res = notify.Failed(fmt.Errorf("sink panic: %v", rec))
		}
	}()
	return sink.Deliver(ctx, rep)
}

func (r *Reporter) observe(ctx context.Context, sink string, rep report.Report, res notify.DeliveryResult, elapsed time.Duration) {
	tags := map[string]string{"sink": sink}
	r.timing("notify.duration", elapsed, tags)

	if res.Succeeded {
		r.count("notify.delivered", tags)
		return
	}

	r.count("notify.failed", tags)
	r.logger.ErrorContext(ctx, "delivery error",
		"sink", sink,
		"kind", rep.Kind,
		"error", res.Err,
	)
}

func (r *Reporter) count(name string, tags map[string]string) {
	if r.metrics != nil {
		r.metrics.Count(name, 1, tags)
	}
}

func (r *Reporter) timing(name string, elapsed time.Duration, tags map[string]string) {
	if r.metrics != nil {
		r.metrics.Timing(name, elapsed, tags)
	}
}

func aggregate(sinks []SinkRegistration, results []notify.DeliveryResult) notify.DeliveryResult {
	identifier := ""
	succeeded := false
	var faults []error

	for i, res := range results {
		if res.Succeeded {
			succeeded = true
			if identifier == "" {
				identifier = res.Identifier
			}
			continue
		}
		faults = append(faults, fmt.Errorf("%s: %w", sinks[i].Name, res.Err))
	}

	if succeeded {
		return notify.Delivered(identifier)
	}
	return notify.Failed(errors.Join(faults...))
}
