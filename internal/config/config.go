package config

import (
	"errors"
	"fmt"
)

// Config represents the unified configuration structure
type Config struct {
	Lab           LabConfig           `json:"lab" yaml:"lab"`
	Output        OutputConfig        `json:"output" yaml:"output"`
	Observability ObservabilityConfig `json:"observability" yaml:"observability"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Lab:           DefaultLabConfig(),
		Output:        DefaultOutputConfig(),
		Observability: DefaultObservabilityConfig(),
	}
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	var errs []error

	if err := c.Lab.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("lab config validation failed: %w", err))
	}
	if err := c.Output.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("output config validation failed: %w", err))
	}
	if err := c.Observability.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("observability config validation failed: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
