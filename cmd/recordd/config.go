package main

import (
	"fmt"

	"github.com/kbukum/recordkit/config"
	"github.com/kbukum/recordkit/debugserver"
	"github.com/kbukum/recordkit/observability"
	"github.com/kbukum/recordkit/record"
)

const serviceName = "recordd"

// SystemConfig is the full recordd configuration.
type SystemConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Record        record.Config        `yaml:"record" mapstructure:"record"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	DebugServer   debugserver.Config   `yaml:"debug_server" mapstructure:"debug_server"`
	Services      ServicesConfig       `yaml:"services" mapstructure:"services"`
}

// ServicesConfig tunes the built-in system services.
type ServicesConfig struct {
	// RadioFrequency is the carrier the radio driver tunes to, in Hz.
	RadioFrequency uint32 `yaml:"radio_frequency" mapstructure:"radio_frequency"`
	// RadioModule names the transceiver chip the driver reports.
	RadioModule string `yaml:"radio_module" mapstructure:"radio_module"`
	// StartupJitter bounds the random delay before each service starts.
	StartupJitter int `yaml:"startup_jitter_ms" mapstructure:"startup_jitter_ms"`
}

func (c *SystemConfig) GetRecordConfig() *record.Config { return &c.Record }

func (c *SystemConfig) GetObservabilityConfig() *observability.Config { return &c.Observability }

// ApplyDefaults fills every section.
func (c *SystemConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Record.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.DebugServer.ApplyDefaults()
	if c.Services.RadioFrequency == 0 {
		c.Services.RadioFrequency = 433_920_000
	}
	if c.Services.RadioModule == "" {
		c.Services.RadioModule = "cc1101"
	}
}

// Validate checks every section.
func (c *SystemConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Record.Validate(); err != nil {
		return fmt.Errorf("config.record: %w", err)
	}
	if err := c.DebugServer.Validate(); err != nil {
		return err
	}
	if c.Services.StartupJitter < 0 {
		return fmt.Errorf("config.services.startup_jitter_ms must be non-negative (got: %d)", c.Services.StartupJitter)
	}
	return nil
}

// loadConfig reads config.yml, .env and the environment, then applies
// defaults and validates.
func loadConfig(configFile, envFile string) (*SystemConfig, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &SystemConfig{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
