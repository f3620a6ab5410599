// Package webhook delivers report summaries to a chat webhook (Slack
// message format).
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/faultdesk/faultdesk-go/notify"
	"github.com/faultdesk/faultdesk-go/report"
)

// Config captures the subset of webhook behaviour we need.
type Config struct {
	WebhookURL string
	Channel    string
	Username   string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Sink posts formatted failure summaries to a webhook.
type Sink struct {
	webhookURL string
	channel    string
	username   string
	retryLimit int
	client     *http.Client
}

var _ notify.Sink = (*Sink)(nil)

// NewSink builds a webhook sink. Callers should pass a validated config.
func NewSink(cfg Config) (*Sink, error) {
	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL == "" {
		return nil, errors.New("webhook url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	retries := max(cfg.RetryLimit, 0)

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Sink{
		webhookURL: webhookURL,
		channel:    strings.TrimSpace(cfg.Channel),
		username:   fallbackString(strings.TrimSpace(cfg.Username), "faultdesk"),
		retryLimit: retries,
		client:     hc,
	}, nil
}

// Deliver posts a summary message. Webhooks do not assign notice ids, so
// the identifier on success is locally generated.
func (s *Sink) Deliver(ctx context.Context, rep report.Report) notify.DeliveryResult {
	body, err := json.Marshal(s.formatMessage(rep))
	if err != nil {
		return notify.Failed(fmt.Errorf("encode webhook payload: %w", err))
	}

	attempts := s.retryLimit + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err = s.post(ctx, body)
		if err == nil {
			return notify.Delivered(uuid.NewString())
		}
		lastErr = err
		if attempt < attempts-1 {
			delay := time.Duration(attempt+1) * 200 * time.Millisecond
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return notify.Failed(ctx.Err())
			case <-timer.C:
			}
		}
	}

	return notify.Failed(lastErr)
}

func (s *Sink) formatMessage(rep report.Report) map[string]any {
	timestamp := rep.OccurredAt
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var text strings.Builder
	writeHeader(&text, rep)
	appendField(&text, "Severity", rep.Severity)
	appendField(&text, "Message", rep.Message)
	appendAttributes(&text, rep.Attributes)
	text.WriteString("• Timestamp: ")
	text.WriteString(timestamp.UTC().Format(time.RFC3339))

	msg := map[string]any{
		"text":     text.String(),
		"username": s.username,
	}
	if s.channel != "" {
		msg["channel"] = s.channel
	}
	return msg
}

func writeHeader(text *strings.Builder, rep report.Report) {
	if rep.Expected {
		text.WriteString("*Failure reported*")
	} else {
		text.WriteString("*Unexpected failure reported*")
	}
	if rep.Kind != "" {
		text.WriteString(" `")
		text.WriteString(rep.Kind)
		text.WriteByte('`')
	}
	text.WriteByte('\n')
}

func appendField(text *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	text.WriteString("• ")
	text.WriteString(label)
	text.WriteString(": ")
	text.WriteString(value)
	text.WriteByte('\n')
}

func appendAttributes(text *strings.Builder, attrs map[string]any) {
	if len(attrs) == 0 {
		return
	}
	text.WriteString("• Attributes:\n")
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		text.WriteString("    • ")
		text.WriteString(k)
		text.WriteString(": ")
		fmt.Fprintf(text, "%v", attrs[k])
		text.WriteByte('\n')
	}
}

func fallbackString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func (s *Sink) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return handleErrorResponse(resp)
	}

	return drainSuccess(resp)
}

func drainSuccess(resp *http.Response) error {
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return errors.Join(
				fmt.Errorf("drain webhook response body: %w", err),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return fmt.Errorf("drain webhook response body: %w", err)
	}
	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}
	return nil
}

func handleErrorResponse(resp *http.Response) error {
	respBody, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return errors.Join(
				fmt.Errorf("read webhook error response: %w", readErr),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return fmt.Errorf("read webhook error response: %w", readErr)
	}
	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return fmt.Errorf("webhook %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
}
