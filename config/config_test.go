package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestDefaults(t *testing.T) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Sanitize()

	if cfg.Environment != "production" {
		t.Fatalf("expected production default environment, got %q", cfg.Environment)
	}
	if !cfg.Console.Enabled {
		t.Fatal("expected console sink enabled by default")
	}
	if cfg.Collector.Enabled {
		t.Fatal("expected collector disabled without credentials")
	}
	if cfg.Collector.Timeout != 5*time.Second {
		t.Fatalf("expected 5s default timeout, got %v", cfg.Collector.Timeout)
	}
	if cfg.Collector.RetryLimit != 3 {
		t.Fatalf("expected 3 default retries, got %d", cfg.Collector.RetryLimit)
	}
	if !cfg.HasSink() {
		t.Fatal("expected the default config to have an active sink")
	}
}

func TestParseFromEnvironment(t *testing.T) {
	vars := map[string]string{
		"FAULTDESK_ENVIRONMENT":           "staging",
		"FAULTDESK_COLLECTOR_ENABLED":     "true",
		"FAULTDESK_COLLECTOR_PROJECT_ID":  "144783",
		"FAULTDESK_COLLECTOR_PROJECT_KEY": "secret",
		"FAULTDESK_COLLECTOR_TIMEOUT":     "2s",
		"FAULTDESK_COLLECTOR_RETRY_LIMIT": "1",
		"FAULTDESK_WEBHOOK_ENABLED":       "true",
		"FAULTDESK_WEBHOOK_URL":           "https://hooks.example.com/x",
		"FAULTDESK_THROTTLE_ENABLED":      "true",
		"FAULTDESK_THROTTLE_WINDOW":       "30s",
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Sanitize()

	if cfg.Environment != "staging" {
		t.Fatalf("unexpected environment: %q", cfg.Environment)
	}
	if !cfg.Collector.Enabled || cfg.Collector.ProjectID != "144783" {
		t.Fatalf("unexpected collector config: %+v", cfg.Collector)
	}
	if cfg.Collector.Timeout != 2*time.Second || cfg.Collector.RetryLimit != 1 {
		t.Fatalf("unexpected collector tuning: %+v", cfg.Collector)
	}
	if !cfg.Webhook.Enabled {
		t.Fatal("expected webhook enabled")
	}
	if !cfg.Throttle.Enabled || cfg.Throttle.Window != 30*time.Second {
		t.Fatalf("unexpected throttle config: %+v", cfg.Throttle)
	}
}

func TestSanitizeDisablesCollectorWithoutCredentials(t *testing.T) {
	cfg := CollectorConfig{Enabled: true, ProjectID: "  ", ProjectKey: "key"}
	cfg.Sanitize()
	if cfg.Enabled {
		t.Fatal("expected collector disabled when project id is blank")
	}

	cfg = CollectorConfig{Enabled: true, ProjectID: "id", ProjectKey: ""}
	cfg.Sanitize()
	if cfg.Enabled {
		t.Fatal("expected collector disabled when project key is blank")
	}
}

func TestSanitizeClampsCollectorValues(t *testing.T) {
	cfg := CollectorConfig{Enabled: true, ProjectID: "id", ProjectKey: "key", Timeout: -time.Second, RetryLimit: -5}
	cfg.Sanitize()
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("expected timeout clamp to 5s, got %v", cfg.Timeout)
	}
	if cfg.RetryLimit != 0 {
		t.Fatalf("expected retry limit clamp to 0, got %d", cfg.RetryLimit)
	}
	if !cfg.Enabled {
		t.Fatal("expected collector to stay enabled with credentials")
	}
}

func TestSanitizeDisablesWebhookWithoutURL(t *testing.T) {
	cfg := WebhookConfig{Enabled: true, URL: "   "}
	cfg.Sanitize()
	if cfg.Enabled {
		t.Fatal("expected webhook disabled when url is blank")
	}
	if cfg.Username != "faultdesk" {
		t.Fatalf("expected default username, got %q", cfg.Username)
	}
}

func TestSanitizeDisablesThrottleWithoutWindow(t *testing.T) {
	cfg := ThrottleConfig{Enabled: true, Window: 0}
	cfg.Sanitize()
	if cfg.Enabled {
		t.Fatal("expected throttle disabled for a zero window")
	}
}

func TestSanitizeDisablesMetricsWithoutAddress(t *testing.T) {
	cfg := MetricsConfig{Enabled: true, Address: " "}
	cfg.Sanitize()
	if cfg.Enabled {
		t.Fatal("expected metrics disabled when address is blank")
	}
}
