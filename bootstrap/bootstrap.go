// Package bootstrap assembles a ready-to-use Reporter from environment
// configuration. It is the single place where process-wide wiring happens;
// the resulting Reporter is passed to call sites explicitly.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/faultdesk/faultdesk-go/config"
	"github.com/faultdesk/faultdesk-go/dedup"
	"github.com/faultdesk/faultdesk-go/metrics"
	"github.com/faultdesk/faultdesk-go/notify/collector"
	"github.com/faultdesk/faultdesk-go/notify/console"
	"github.com/faultdesk/faultdesk-go/notify/webhook"
	"github.com/faultdesk/faultdesk-go/reporter"
)

// InitLogger initializes the structured logger.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables, reading a
// .env file first when one exists (development).
func LoadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// BuildReporter wires sinks, throttle store, and metrics from config. The
// returned shutdown function releases the Redis and StatsD connections and
// must be called at process exit.
func BuildReporter(cfg config.Config, logger *slog.Logger) (*reporter.Reporter, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var sinks []reporter.SinkRegistration
	var closers []func() error

	if cfg.Console.Enabled {
		sinks = append(sinks, reporter.SinkRegistration{
			Name: "console",
			Sink: console.NewSink(console.Config{}),
		})
	}

	if cfg.Collector.Enabled {
		sink, err := collector.NewClient(collector.Config{
			ProjectID:   cfg.Collector.ProjectID,
			ProjectKey:  cfg.Collector.ProjectKey,
			Host:        cfg.Collector.Host,
			Environment: cfg.Environment,
			Timeout:     cfg.Collector.Timeout,
			RetryLimit:  cfg.Collector.RetryLimit,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("build collector sink: %w", err)
		}
		sinks = append(sinks, reporter.SinkRegistration{Name: "collector", Sink: sink})
	}

	if cfg.Webhook.Enabled {
		sink, err := webhook.NewSink(webhook.Config{
			WebhookURL: cfg.Webhook.URL,
			Channel:    cfg.Webhook.Channel,
			Username:   cfg.Webhook.Username,
			Timeout:    cfg.Webhook.Timeout,
			RetryLimit: cfg.Webhook.RetryLimit,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("build webhook sink: %w", err)
		}
		sinks = append(sinks, reporter.SinkRegistration{Name: "webhook", Sink: sink})
	}

	throttle, throttleCloser := buildThrottle(cfg.Throttle)
	if throttleCloser != nil {
		closers = append(closers, throttleCloser)
	}

	var metricsSink metrics.Sink
	if cfg.Metrics.Enabled {
		client, err := metrics.NewClient(metrics.Config{
			Enabled: true,
			Address: cfg.Metrics.Address,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("build metrics client: %w", err)
		}
		metricsSink = client
		closers = append(closers, client.Close)
	}

	r := reporter.New(reporter.Options{
		Logger:         logger.With("component", "reporter"),
		Sinks:          sinks,
		Throttle:       throttle,
		ThrottleWindow: cfg.Throttle.Window,
		Metrics:        metricsSink,
	})

	shutdown := func() error {
		var errs []error
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return r, shutdown, nil
}

func buildThrottle(cfg config.ThrottleConfig) (dedup.Store, func() error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.RedisAddress == "" {
		return dedup.NewMemory(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return dedup.NewRedisStore(client), client.Close
}
