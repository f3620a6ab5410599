// Package config holds the client's runtime configuration, loaded from
// environment variables via github.com/caarlos0/env. Each group carries a
// Sanitize pass that applies guardrails after parsing: trimming, disabling
// sinks with missing credentials, and clamping unusable values.
package config

import "strings"

// Config is the root configuration for the Faultdesk client.
type Config struct {
	// Environment tags every notice (e.g. "production", "staging").
	Environment string `env:"FAULTDESK_ENVIRONMENT" envDefault:"production"`

	Collector CollectorConfig `envPrefix:"FAULTDESK_COLLECTOR_"`
	Console   ConsoleConfig   `envPrefix:"FAULTDESK_CONSOLE_"`
	Webhook   WebhookConfig   `envPrefix:"FAULTDESK_WEBHOOK_"`
	Throttle  ThrottleConfig  `envPrefix:"FAULTDESK_THROTTLE_"`
	Metrics   MetricsConfig   `envPrefix:"FAULTDESK_METRICS_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// Call it after parsing.
func (c *Config) Sanitize() {
	c.Environment = strings.TrimSpace(c.Environment)
	if c.Environment == "" {
		c.Environment = "production"
	}

	c.Collector.Sanitize()
	c.Webhook.Sanitize()
	c.Throttle.Sanitize()
	c.Metrics.Sanitize()
}

// HasSink reports whether at least one delivery sink is active.
func (c *Config) HasSink() bool {
	return c.Console.Enabled || c.Collector.Enabled || c.Webhook.Enabled
}
