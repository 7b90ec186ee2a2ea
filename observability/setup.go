package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/recordkit/logger"
)

const (
	// DefaultEndpoint is the local OTLP/HTTP collector address.
	DefaultEndpoint = "localhost:4318"
	// DefaultMetricInterval is how often metrics are pushed.
	DefaultMetricInterval = 15 * time.Second
)

// Config is the observability section of the application config.
type Config struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval" validate:"gte=0"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval == 0 {
		c.MetricInterval = DefaultMetricInterval
	}
}

// Providers holds the tracer and meter providers created by Setup.
// Both are nil when observability is disabled.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *sdkmetric.MeterProvider
}

// Setup initializes OTLP tracing and metrics when cfg.Enabled is set.
func Setup(ctx context.Context, cfg Config, service, version, environment string) (*Providers, error) {
	p := &Providers{}
	if !cfg.Enabled {
		return p, nil
	}
	cfg.ApplyDefaults()

	res, err := newResource(service, version, environment)
	if err != nil {
		return nil, fmt.Errorf("observability: creating resource: %w", err)
	}

	tp, err := newTracerProvider(ctx, cfg, res)
	if err != nil {
		return nil, fmt.Errorf("observability: %w", err)
	}
	p.Tracer = tp

	mp, err := newMeterProvider(ctx, cfg, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("observability: %w", err)
	}
	p.Meter = mp

	logger.Get("observability").Info("telemetry initialized", logger.Fields(
		"service", service,
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
		"metric_interval", cfg.MetricInterval.String(),
	))
	return p, nil
}

// MeterProvider returns the configured provider, or a no-op provider when
// observability is disabled.
func (p *Providers) MeterProvider() metric.MeterProvider {
	if p == nil || p.Meter == nil {
		return noop.NewMeterProvider()
	}
	return p.Meter
}

// Shutdown flushes and stops whatever providers were started.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
