package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/faultdesk/faultdesk-go/report"
)

func TestDeliveredAndFailed(t *testing.T) {
	ok := Delivered("notice-1")
	if !ok.Succeeded || ok.Identifier != "notice-1" || ok.Err != nil {
		t.Fatalf("unexpected result: %+v", ok)
	}

	fault := errors.New("boom")
	bad := Failed(fault)
	if bad.Succeeded || bad.Identifier != "" || !errors.Is(bad.Err, fault) {
		t.Fatalf("unexpected result: %+v", bad)
	}
}

func TestSinkFuncNil(t *testing.T) {
	var sink SinkFunc
	res := sink.Deliver(context.Background(), report.Report{})
	if !res.Succeeded {
		t.Fatalf("nil SinkFunc should be a no-op success, got %+v", res)
	}
}

func TestDispatchResolves(t *testing.T) {
	sink := SinkFunc(func(ctx context.Context, rep report.Report) DeliveryResult {
		return Delivered("abc")
	})

	d := Dispatch(context.Background(), sink, report.Report{})
	res := d.Result()
	if !res.Succeeded || res.Identifier != "abc" {
		t.Fatalf("unexpected result: %+v", res)
	}

	select {
	case <-d.Done():
	default:
		t.Fatal("expected Done channel to be closed after Result")
	}
}

func TestDispatchContainsPanic(t *testing.T) {
	sink := SinkFunc(func(ctx context.Context, rep report.Report) DeliveryResult {
		panic("sink exploded")
	})

	res := Dispatch(context.Background(), sink, report.Report{}).Result()
	if res.Succeeded {
		t.Fatal("expected panic to resolve as failure")
	}
	if res.Err == nil {
		t.Fatal("expected panic to be surfaced as an error")
	}
}

func TestWaitAbandonsPending(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	sink := SinkFunc(func(ctx context.Context, rep report.Report) DeliveryResult {
		close(started)
		<-release
		return Delivered("late")
	})

	d := Dispatch(context.Background(), sink, report.Report{})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	res := d.Wait(ctx)
	if res.Succeeded {
		t.Fatal("expected abandoned wait to report failure")
	}
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", res.Err)
	}

	// The underlying attempt still completes.
	close(release)
	if final := d.Result(); !final.Succeeded || final.Identifier != "late" {
		t.Fatalf("unexpected final result: %+v", final)
	}
}

func TestResolved(t *testing.T) {
	d := Resolved(Delivered("now"))
	select {
	case <-d.Done():
	default:
		t.Fatal("expected resolved delivery to be done immediately")
	}
	if res := d.Result(); res.Identifier != "now" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
