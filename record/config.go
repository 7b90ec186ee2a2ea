package record

import (
	"time"

	"github.com/kbukum/recordkit/resilience"
	"github.com/kbukum/recordkit/validation"
)

// FatalMode selects how contract violations terminate.
type FatalMode string

const (
	// FatalPanic raises a panic carrying the *errors.AppError.
	FatalPanic FatalMode = "panic"
	// FatalExit logs at fatal level, which exits the process.
	FatalExit FatalMode = "exit"
)

// Config is the `record` section of the application config.
type Config struct {
	// MaxRecords caps the number of live entries. Zero means unbounded.
	MaxRecords int `yaml:"max_records" mapstructure:"max_records" validate:"gte=0"`
	// MaxNameLength caps record name length in bytes. Zero means unbounded.
	MaxNameLength int `yaml:"max_name_length" mapstructure:"max_name_length" validate:"gte=0"`
	// OpenTimeout applies to OpenContext and Acquire when the caller's
	// context has no deadline. Zero waits indefinitely.
	OpenTimeout time.Duration `yaml:"open_timeout" mapstructure:"open_timeout" validate:"gte=0"`
	// FatalMode is "panic" or "exit".
	FatalMode FatalMode `yaml:"fatal_mode" mapstructure:"fatal_mode" validate:"oneof=panic exit"`
	// MetricsEnabled turns on the otel instruments.
	MetricsEnabled bool `yaml:"metrics_enabled" mapstructure:"metrics_enabled"`
	// DestroyRetry drives DestroyWithRetry when callers pass a zero config.
	DestroyRetry resilience.RetryConfig `yaml:"destroy_retry" mapstructure:"destroy_retry"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.FatalMode == "" {
		c.FatalMode = FatalPanic
	}
	if c.DestroyRetry.MaxAttempts == 0 {
		def := resilience.DefaultRetryConfig()
		def.RetryIf = nil
		c.DestroyRetry = def
	}
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
