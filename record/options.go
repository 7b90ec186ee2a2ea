package record

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/recordkit/logger"
)

// Option configures a Registry.
type Option func(*Registry)

// WithConfig sets the registry config. Defaults are applied on New.
func WithConfig(cfg Config) Option {
	return func(r *Registry) {
		r.cfg = cfg
	}
}

// WithLogger replaces the component logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) {
		r.log = l
	}
}

// WithMeter records registry metrics on meter. Without it no instruments
// are created.
func WithMeter(meter metric.Meter) Option {
	return func(r *Registry) {
		r.meter = meter
	}
}
