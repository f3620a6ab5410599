// Package collector delivers reports to the hosted Faultdesk collector.
// Every transport fault is converted into a failed delivery result; the
// sink never raises a fault back into the reporting application.
package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/faultdesk/faultdesk-go/notify"
	"github.com/faultdesk/faultdesk-go/report"
)

// DefaultHost is the hosted collector's ingest endpoint.
const DefaultHost = "https://api.faultdesk.io"

const (
	notifierName    = "faultdesk-go"
	notifierVersion = "1.0.0"
)

// Config captures runtime configuration for the collector sink. ProjectID
// and ProjectKey are opaque credentials issued by the collector; the client
// never inspects their format beyond requiring them to be present.
type Config struct {
	ProjectID   string
	ProjectKey  string
	Host        string
	Environment string
	Timeout     time.Duration
	RetryLimit  int
	Client      *http.Client
}

// Client posts notices to the collector's v3 ingest API.
type Client struct {
	projectID   string
	projectKey  string
	host        string
	environment string
	retryLimit  int
	client      *http.Client
}

var _ notify.Sink = (*Client)(nil)

// NewClient constructs a collector sink. Callers must provide the project
// credentials.
func NewClient(cfg Config) (*Client, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, errors.New("collector project id is required")
	}
	projectKey := strings.TrimSpace(cfg.ProjectKey)
	if projectKey == "" {
		return nil, errors.New("collector project key is required")
	}

	host := strings.TrimRight(strings.TrimSpace(cfg.Host), "/")
	if host == "" {
		host = DefaultHost
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

	return &Client{
		projectID:   projectID,
		projectKey:  projectKey,
		host:        host,
		environment: strings.TrimSpace(cfg.Environment),
		retryLimit:  retries,
		client:      hc,
	}, nil
}

// Deliver submits the report as a notice. Retries are internal: only the
// final outcome is observable, as a delivered or failed result.
func (c *Client) Deliver(ctx context.Context, rep report.Report) notify.DeliveryResult {
	body, err := json.Marshal(c.buildNotice(rep))
	if err != nil {
		return notify.Failed(fmt.Errorf("encode notice: %w", err))
	}

	attempts := c.retryLimit + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		id, err := c.submit(ctx, body)
		if err == nil {
			return notify.Delivered(id)
		}
		lastErr = err
		if attempt < attempts-1 {
			// Simple linear backoff to avoid thundering retries.
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

	return notify.Failed(fmt.Errorf("collector delivery exhausted %d attempts: %w", attempts, lastErr))
}

type notice struct {
	Errors  []noticeError  `json:"errors"`
	Context noticeContext  `json:"context"`
	Params  map[string]any `json:"params,omitempty"`
}

type noticeError struct {
	Type      string        `json:"type"`
	Message   string        `json:"message"`
	Backtrace []noticeFrame `json:"backtrace,omitempty"`
}

type noticeFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

type noticeContext struct {
	Severity    string         `json:"severity"`
	Environment string         `json:"environment,omitempty"`
	Expected    bool           `json:"expected"`
	Timestamp   string         `json:"timestamp"`
	Notifier    noticeNotifier `json:"notifier"`
}

type noticeNotifier struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (c *Client) buildNotice(rep report.Report) notice {
	occurredAt := rep.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	backtrace := make([]noticeFrame, 0, len(rep.Trace))
	for _, fr := range rep.Trace {
		backtrace = append(backtrace, noticeFrame{
			Function: fr.Function,
			File:     fr.File,
			Line:     fr.Line,
		})
	}

	return notice{
		Errors: []noticeError{{
			Type:      rep.Kind,
			Message:   rep.Message,
			Backtrace: backtrace,
		}},
		Context: noticeContext{
			Severity:    rep.Severity,
			Environment: c.environment,
			Expected:    rep.Expected,
			Timestamp:   occurredAt.UTC().Format(time.RFC3339),
			Notifier:    noticeNotifier{Name: notifierName, Version: notifierVersion},
		},
		Params: rep.Attributes,
	}
}

func (c *Client) noticeURL() string {
	return fmt.Sprintf("%s/api/v3/projects/%s/notices?key=%s",
		c.host, url.PathEscape(c.projectID), url.QueryEscape(c.projectKey))
}

func (c *Client) submit(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.noticeURL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create collector request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("collector request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.handleErrorResponse(resp)
	}

	return decodeNoticeID(resp)
}

func decodeNoticeID(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	var ack struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return "", fmt.Errorf("decode collector response: %w", err)
	}
	if ack.ID == "" {
		return "", errors.New("collector response missing notice id")
	}
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return "", fmt.Errorf("drain collector response body: %w", err)
	}
	return ack.ID, nil
}

func (c *Client) handleErrorResponse(resp *http.Response) error {
	respBody, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return errors.Join(
				fmt.Errorf("read collector error response: %w", readErr),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return fmt.Errorf("read collector error response: %w", readErr)
	}
	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return fmt.Errorf("collector api %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
}
