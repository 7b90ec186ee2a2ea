package bootstrap

import (
	"github.com/kbukum/recordkit/config"
	"github.com/kbukum/recordkit/observability"
	"github.com/kbukum/recordkit/record"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig (value embedding) automatically
// satisfies this interface via promoted methods.
//
// Example:
//
//	type SystemConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Record record.Config `yaml:"record" mapstructure:"record"`
//	}
//
//	app, err := bootstrap.NewApp[*SystemConfig](&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}

// RecordConfigurer is implemented by configs that carry a record section.
// Without it the registry runs with record.Config defaults.
type RecordConfigurer interface {
	GetRecordConfig() *record.Config
}

// ObservabilityConfigurer is implemented by configs that carry an
// observability section. Without it tracing and metrics stay disabled.
type ObservabilityConfigurer interface {
	GetObservabilityConfig() *observability.Config
}
