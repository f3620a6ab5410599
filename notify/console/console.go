// Package console delivers reports to an output stream, stdout by default.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/faultdesk/faultdesk-go/notify"
	"github.com/faultdesk/faultdesk-go/report"
)

// Config captures console sink behaviour.
type Config struct {
	// Writer receives report text. Defaults to os.Stdout.
	Writer io.Writer
}

// Sink writes report text to a stream. Writes are synchronous and
// effectively instantaneous; a closed or failing stream degrades to a
// failed result rather than a fault, since console logging is itself a
// diagnostic aid.
type Sink struct {
	mu     sync.Mutex
	writer io.Writer
}

var _ notify.Sink = (*Sink)(nil)

// NewSink builds a console sink.
func NewSink(cfg Config) *Sink {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	return &Sink{writer: w}
}

// Deliver writes the report text followed by a newline. The identifier on
// success is locally assigned; there is no remote collector to mint one.
func (s *Sink) Deliver(_ context.Context, rep report.Report) notify.DeliveryResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.writer, rep.Text+"\n"); err != nil {
		return notify.Failed(fmt.Errorf("write report: %w", err))
	}
	return notify.Delivered(uuid.NewString())
}
