package config

import (
	"strings"
	"time"
)

// CollectorConfig controls delivery to the hosted collector. ProjectID and
// ProjectKey are opaque tokens issued by the collector; the client never
// validates their format.
type CollectorConfig struct {
	Enabled    bool          `env:"ENABLED"     envDefault:"false"`
	ProjectID  string        `env:"PROJECT_ID"`
	ProjectKey string        `env:"PROJECT_KEY"`
	Host       string        `env:"HOST"`
	Timeout    time.Duration `env:"TIMEOUT"     envDefault:"5s"`
	RetryLimit int           `env:"RETRY_LIMIT" envDefault:"3"`
}

// Sanitize normalises collector configuration and disables the sink when
// credentials are missing.
func (c *CollectorConfig) Sanitize() {
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.ProjectKey = strings.TrimSpace(c.ProjectKey)
	c.Host = strings.TrimSpace(c.Host)

	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}
	if c.Enabled && (c.ProjectID == "" || c.ProjectKey == "") {
		c.Enabled = false
	}
}

// ConsoleConfig controls the console sink.
type ConsoleConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"true"`
}

// WebhookConfig controls chat webhook fan-out.
type WebhookConfig struct {
	Enabled    bool          `env:"ENABLED"     envDefault:"false"`
	URL        string        `env:"URL"`
	Channel    string        `env:"CHANNEL"`
	Username   string        `env:"USERNAME"    envDefault:"faultdesk"`
	Timeout    time.Duration `env:"TIMEOUT"     envDefault:"5s"`
	RetryLimit int           `env:"RETRY_LIMIT" envDefault:"3"`
}

// Sanitize normalises webhook configuration values.
func (c *WebhookConfig) Sanitize() {
	c.URL = strings.TrimSpace(c.URL)
	c.Channel = strings.TrimSpace(c.Channel)
	if c.Username = strings.TrimSpace(c.Username); c.Username == "" {
		c.Username = "faultdesk"
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}
	if c.Enabled && c.URL == "" {
		c.Enabled = false
	}
}

// ThrottleConfig controls suppression of repeated expected failures. With
// a Redis address the suppression window is shared across processes;
// without one an in-process store is used.
type ThrottleConfig struct {
	Enabled       bool          `env:"ENABLED"        envDefault:"false"`
	Window        time.Duration `env:"WINDOW"         envDefault:"1m"`
	RedisAddress  string        `env:"REDIS_ADDRESS"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB"       envDefault:"0"`
}

// Sanitize normalises throttle configuration values.
func (c *ThrottleConfig) Sanitize() {
	c.RedisAddress = strings.TrimSpace(c.RedisAddress)
	if c.Window <= 0 {
		c.Enabled = false
	}
	if c.RedisDB < 0 {
		c.RedisDB = 0
	}
}

// MetricsConfig controls emission of delivery metrics to a StatsD sink.
type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Address string `env:"ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix  string `env:"PREFIX"  envDefault:"faultdesk"`
}

// Sanitize normalises metrics configuration values.
func (c *MetricsConfig) Sanitize() {
	c.Address = strings.TrimSpace(c.Address)
	c.Prefix = strings.TrimSpace(c.Prefix)
	if c.Address == "" {
		c.Enabled = false
	}
}
