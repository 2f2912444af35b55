package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

// Helper functions for pointers
func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }

// changedFlags builds a CLIFlags whose FlagSet reports the given flags as explicitly set.
func changedFlags(t *testing.T, args []string) (*CLIFlags, *pflag.FlagSet) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := &CLIFlags{
		FlagSet:         fs,
		Token:           fs.String("token", "", ""),
		DOB:             fs.String("dob", "", ""),
		BaseURL:         fs.String("url", "", ""),
		Timezone:        fs.String("timezone", "", ""),
		Output:          fs.String("output", "", ""),
		LogLevel:        fs.String("log-level", "", ""),
		MetricsTextfile: fs.String("metrics-textfile", "", ""),
		Tracing:         fs.Bool("tracing", false, ""),
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	return flags, fs
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name         string
		configFile   string
		fileName     string
		fileContent  string
		envVars      map[string]string
		args         []string
		wantErr      bool
		wantToken    string
		wantTimezone string
		wantSink     string
	}{
		{
			name:         "Required values from CLI only",
			args:         []string{"--token", "cli-token", "--dob", "1990-01-01"},
			wantToken:    "cli-token",
			wantTimezone: "America/Los_Angeles",
			wantSink:     "auto",
		},
		{
			name:         "Load from YAML file",
			fileName:     "config.yaml",
			fileContent:  "lab: {token: file-token, dob: '1990-01-01', timezone: America/New_York}",
			wantToken:    "file-token",
			wantTimezone: "America/New_York",
			wantSink:     "auto",
		},
		{
			name:         "Load from JSON file",
			fileName:     "config.json",
			fileContent:  `{"lab": {"token": "json-token", "dob": "1990-01-01"}, "output": {"sink": "console"}}`,
			wantToken:    "json-token",
			wantTimezone: "America/Los_Angeles",
			wantSink:     "console",
		},
		{
			name: "Load from Environment Variables",
			envVars: map[string]string{
				"GO_LAB_STATUS_TOKEN":    "env-token",
				"GO_LAB_STATUS_DOB":      "1990-01-01",
				"GO_LAB_STATUS_TIMEZONE": "UTC",
			},
			wantToken:    "env-token",
			wantTimezone: "UTC",
			wantSink:     "auto",
		},
		{
			name:        "Precedence: CLI > Env > File > Default",
			fileName:    "config.yaml",
			fileContent: "lab: {token: file-token, dob: '1990-01-01'}\noutput: {sink: alert}",
			envVars: map[string]string{
				"GO_LAB_STATUS_TOKEN":  "env-token",
				"GO_LAB_STATUS_OUTPUT": "console",
			},
			args:         []string{"--token", "cli-token"},
			wantToken:    "cli-token",
			wantTimezone: "America/Los_Angeles",
			wantSink:     "console",
		},
		{
			name:       "File not found",
			configFile: "nonexistent.yaml",
			wantErr:    true,
		},
		{
			name:        "Invalid file content",
			fileName:    "config.yaml",
			fileContent: `lab: {token: "abc"`,
			wantErr:     true,
		},
		{
			name:        "Unsupported file extension",
			fileName:    "config.toml",
			fileContent: `token = "abc"`,
			wantErr:     true,
		},
		{
			name:    "Missing token and dob",
			wantErr: true,
		},
		{
			name:    "Validation Error from CLI",
			args:    []string{"--token", "t", "--dob", "d", "--output", "pager"},
			wantErr: true,
		},
		{
			name: "Validation Error from Env",
			envVars: map[string]string{
				"GO_LAB_STATUS_TOKEN":    "t",
				"GO_LAB_STATUS_DOB":      "d",
				"GO_LAB_STATUS_TIMEZONE": "Mars/Olympus_Mons",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			var actualConfigFile string
			if tt.fileContent != "" {
				actualConfigFile = filepath.Join(t.TempDir(), tt.fileName)
				if err := os.WriteFile(actualConfigFile, []byte(tt.fileContent), 0o600); err != nil {
					t.Fatalf("Failed to create temp config file: %v", err)
				}
			} else if tt.configFile != "" {
				actualConfigFile = tt.configFile
			}

			cliFlags, _ := changedFlags(t, tt.args)
			config, err := LoadConfig(actualConfigFile, cliFlags)

			if (err != nil) != tt.wantErr {
				t.Errorf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if config.Lab.Token != tt.wantToken {
				t.Errorf("LoadConfig() Lab.Token got %q, want %q", config.Lab.Token, tt.wantToken)
			}
			if config.Lab.Timezone != tt.wantTimezone {
				t.Errorf("LoadConfig() Lab.Timezone got %q, want %q", config.Lab.Timezone, tt.wantTimezone)
			}
			if config.Output.Sink != tt.wantSink {
				t.Errorf("LoadConfig() Output.Sink got %q, want %q", config.Output.Sink, tt.wantSink)
			}
		})
	}
}

func TestOverrideWithCLI_OnlyChangedFlags(t *testing.T) {
	cliFlags, _ := changedFlags(t, []string{"--tracing"})
	// Values set directly on the struct without a matching parsed flag are ignored.
	cliFlags.Token = stringPtr("ignored")
	cliFlags.Tracing = boolPtr(true)

	cfg := DefaultConfig()
	cfg.Lab.Token = "kept"
	overrideWithCLI(cfg, cliFlags)

	if cfg.Lab.Token != "kept" {
		t.Errorf("unchanged flag overrode token: got %q", cfg.Lab.Token)
	}
	if !cfg.Observability.Tracing.Enabled {
		t.Error("changed --tracing flag did not enable tracing")
	}
}

func TestOverrideWithCLI_NilFlags(t *testing.T) {
	cfg := DefaultConfig()
	overrideWithCLI(cfg, nil)
	overrideWithCLI(cfg, &CLIFlags{})

	if cfg.Lab.BaseURL != DefaultLabConfig().BaseURL {
		t.Errorf("nil flags changed config: %+v", cfg.Lab)
	}
}

func TestMergeConfig(t *testing.T) {
	base := DefaultConfig()
	file := &Config{
		Lab:    LabConfig{Token: "tok", DOB: "1990-01-01"},
		Output: OutputConfig{AlertTitle: "Covid test"},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "debug"},
			Metrics: MetricsConfig{Textfile: "/tmp/lab.prom"},
			Tracing: TracingConfig{Enabled: true},
		},
	}

	mergeConfig(base, file)

	if base.Lab.Token != "tok" || base.Lab.DOB != "1990-01-01" {
		t.Errorf("lab values not merged: %+v", base.Lab)
	}
	if base.Lab.Timezone != "America/Los_Angeles" {
		t.Errorf("empty file timezone replaced default: %q", base.Lab.Timezone)
	}
	if base.Output.Sink != "auto" || base.Output.AlertTitle != "Covid test" {
		t.Errorf("output values not merged: %+v", base.Output)
	}
	if base.Observability.Logging.Level != "debug" || base.Observability.Logging.Format != "console" {
		t.Errorf("logging values not merged: %+v", base.Observability.Logging)
	}
	if base.Observability.Metrics.Textfile != "/tmp/lab.prom" {
		t.Errorf("metrics textfile not merged: %q", base.Observability.Metrics.Textfile)
	}
	if !base.Observability.Tracing.Enabled || base.Observability.Tracing.ServiceName == "" {
		t.Errorf("tracing values not merged: %+v", base.Observability.Tracing)
	}
}
