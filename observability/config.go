package observability

import (
	"fmt"
	"time"

	"github.com/kbukum/rediskit/version"
)

// Config configures OTLP/HTTP export of traces and metrics.
type Config struct {
	Enabled        bool    `yaml:"enabled" mapstructure:"enabled"`
	ServiceName    string  `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string  `yaml:"service_version" mapstructure:"service_version"`
	Environment    string  `yaml:"environment" mapstructure:"environment"`
	Endpoint       string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	MetricInterval string  `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// ApplyDefaults fills zero fields with development defaults. The service
// version defaults to the build version.
func (c *Config) ApplyDefaults() {
	if c.ServiceVersion == "" {
		c.ServiceVersion = version.Short()
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval == "" {
		c.MetricInterval = "15s"
	}
}

// Validate checks the config. A disabled config is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ServiceName == "" {
		return fmt.Errorf("telemetry.service_name is required when enabled")
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample_rate must be within [0, 1] (got: %v)", c.SampleRate)
	}
	if _, err := time.ParseDuration(c.MetricInterval); err != nil {
		return fmt.Errorf("telemetry.metric_interval: %w", err)
	}
	return nil
}

func (c *Config) interval() time.Duration {
	d, err := time.ParseDuration(c.MetricInterval)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}
