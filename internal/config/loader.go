package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leslieo2/go-lab-status/internal/constants"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration with precedence:
// 1. Explicit CLI flags (highest priority)
// 2. Environment variables
// 3. Configuration file values
// 4. Default configuration values (lowest priority)
func LoadConfig(configFile string, cliFlags *CLIFlags) (*Config, error) {
	config := DefaultConfig()

	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		mergeConfig(config, fileConfig)
	}

	loadFromEnv(config)

	if cliFlags != nil {
		overrideWithCLI(config, cliFlags)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// CLIFlags contains CLI flag values that can override configuration.
// A value is only applied when the matching flag was explicitly set on FlagSet.
type CLIFlags struct {
	FlagSet *pflag.FlagSet

	Token           *string
	DOB             *string
	BaseURL         *string
	Timezone        *string
	Output          *string
	LogLevel        *string
	MetricsTextfile *string
	Tracing         *bool
}

// loadFromFile loads configuration from a YAML or JSON file
func loadFromFile(filePath string) (*Config, error) {
	if !filepath.IsAbs(filePath) {
		absPath, err := filepath.Abs(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for %s: %w", filePath, err)
		}
		filePath = absPath
	}

	if err := validateFilePath(filePath); err != nil {
		return nil, fmt.Errorf("invalid config file path %s: %w", filePath, err)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 - file path validated by validateFilePath()
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	config := &Config{}
	ext := filepath.Ext(filePath)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	case ".json":
		err = json.Unmarshal(data, config)
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
	}

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(config *Config) {
	if val := os.Getenv(constants.EnvToken); val != "" {
		config.Lab.Token = val
	}
	if val := os.Getenv(constants.EnvDOB); val != "" {
		config.Lab.DOB = val
	}
	if val := os.Getenv(constants.EnvBaseURL); val != "" {
		config.Lab.BaseURL = val
	}
	if val := os.Getenv(constants.EnvTimezone); val != "" {
		config.Lab.Timezone = val
	}
	if val := os.Getenv(constants.EnvOutput); val != "" {
		config.Output.Sink = val
	}
	if val := os.Getenv(constants.EnvAlertTitle); val != "" {
		config.Output.AlertTitle = val
	}
	if val := os.Getenv(constants.EnvLogLevel); val != "" {
		config.Observability.Logging.Level = val
	}
	if val := os.Getenv(constants.EnvLogFormat); val != "" {
		config.Observability.Logging.Format = val
	}
	if val := os.Getenv(constants.EnvMetricsTextfile); val != "" {
		config.Observability.Metrics.Textfile = val
	}
	if val := os.Getenv(constants.EnvTracing); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			config.Observability.Tracing.Enabled = enabled
		}
	}
}

// overrideWithCLI overrides configuration with CLI flag values
// Only explicitly set CLI flags override other configuration sources
func overrideWithCLI(config *Config, flags *CLIFlags) {
	if flags == nil || flags.FlagSet == nil {
		return
	}
	changed := func(name string) bool {
		f := flags.FlagSet.Lookup(name)
		return f != nil && f.Changed
	}

	if flags.Token != nil && changed("token") {
		config.Lab.Token = *flags.Token
	}
	if flags.DOB != nil && changed("dob") {
		config.Lab.DOB = *flags.DOB
	}
	if flags.BaseURL != nil && changed("url") {
		config.Lab.BaseURL = *flags.BaseURL
	}
	if flags.Timezone != nil && changed("timezone") {
		config.Lab.Timezone = *flags.Timezone
	}
	if flags.Output != nil && changed("output") {
		config.Output.Sink = *flags.Output
	}
	if flags.LogLevel != nil && changed("log-level") {
		config.Observability.Logging.Level = *flags.LogLevel
	}
	if flags.MetricsTextfile != nil && changed("metrics-textfile") {
		config.Observability.Metrics.Textfile = *flags.MetricsTextfile
	}
	if flags.Tracing != nil && changed("tracing") {
		config.Observability.Tracing.Enabled = *flags.Tracing
	}
}

// mergeConfig merges file configuration into the base configuration
func mergeConfig(base *Config, file *Config) {
	if file.Lab.BaseURL != "" {
		base.Lab.BaseURL = file.Lab.BaseURL
	}
	if file.Lab.Token != "" {
		base.Lab.Token = file.Lab.Token
	}
	if file.Lab.DOB != "" {
		base.Lab.DOB = file.Lab.DOB
	}
	if file.Lab.Timezone != "" {
		base.Lab.Timezone = file.Lab.Timezone
	}

	if file.Output.Sink != "" {
		base.Output.Sink = file.Output.Sink
	}
	if file.Output.AlertTitle != "" {
		base.Output.AlertTitle = file.Output.AlertTitle
	}

	if file.Observability.Logging.Level != "" {
		base.Observability.Logging.Level = file.Observability.Logging.Level
	}
	if file.Observability.Logging.Format != "" {
		base.Observability.Logging.Format = file.Observability.Logging.Format
	}
	if file.Observability.Logging.Output != "" {
		base.Observability.Logging.Output = file.Observability.Logging.Output
	}
	if file.Observability.Logging.Development {
		base.Observability.Logging.Development = true
	}
	if file.Observability.Metrics.Textfile != "" {
		base.Observability.Metrics.Textfile = file.Observability.Metrics.Textfile
	}
	if file.Observability.Tracing.Enabled {
		base.Observability.Tracing.Enabled = true
	}
	if file.Observability.Tracing.ServiceName != "" {
		base.Observability.Tracing.ServiceName = file.Observability.Tracing.ServiceName
	}
	if file.Observability.Tracing.Environment != "" {
		base.Observability.Tracing.Environment = file.Observability.Tracing.Environment
	}
}

// validateFilePath checks if the file path is safe to read
func validateFilePath(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains directory traversal attempts")
	}

	return nil
}
