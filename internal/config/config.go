// Package config provides configuration types and defaults for lexarg.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/zjrosen/lexarg/internal/log"
	"github.com/zjrosen/lexarg/internal/tracing"
)

// Output formats.
const (
	FormatText      = "text"
	FormatJSON      = "json"
	FormatYAML      = "yaml"
	FormatHighlight = "highlight"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	validFormats = []string{FormatText, FormatJSON, FormatYAML, FormatHighlight}
	validColors  = []string{ColorAuto, ColorAlways, ColorNever}
	validLevels  = []string{"debug", "info", "warn", "warning", "error"}
)

// Config holds all configuration options for lexarg.
type Config struct {
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	LogFile  string         `mapstructure:"log_file" yaml:"log_file"`
	LogLevel string         `mapstructure:"log_level" yaml:"log_level"`
	Tracing  tracing.Config `mapstructure:"tracing" yaml:"tracing"`
}

// OutputConfig controls how token streams and harness options are printed.
type OutputConfig struct {
	Format   string `mapstructure:"format" yaml:"format"`       // text (default), json, yaml or highlight
	Color    string `mapstructure:"color" yaml:"color"`         // auto (default), always or never
	MaxWidth int    `mapstructure:"max_width" yaml:"max_width"` // payload column width for text output, 0 = unlimited
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Output: OutputConfig{
			Format:   FormatText,
			Color:    ColorAuto,
			MaxWidth: 60,
		},
		LogLevel: "debug",
		Tracing:  tracing.DefaultConfig(),
	}
}

// DefaultConfigPath returns ~/.config/lexarg/config.yaml, or the relative
// .lexarg/config.yaml when the home directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".lexarg", "config.yaml")
	}
	return filepath.Join(home, ".config", "lexarg", "config.yaml")
}

// ValidateOutput checks output settings.
func ValidateOutput(out OutputConfig) error {
	if !slices.Contains(validFormats, out.Format) {
		return fmt.Errorf("output.format must be one of %v, got %q", validFormats, out.Format)
	}
	if !slices.Contains(validColors, out.Color) {
		return fmt.Errorf("output.color must be one of %v, got %q", validColors, out.Color)
	}
	if out.MaxWidth < 0 {
		return fmt.Errorf("output.max_width must not be negative, got %d", out.MaxWidth)
	}
	return nil
}

// ValidateTracing checks tracing settings. Disabled tracing is always valid.
func ValidateTracing(cfg tracing.Config) error {
	if !cfg.Enabled {
		return nil
	}
	switch cfg.Exporter {
	case "none", "stdout", "otlp":
	case "file":
		if cfg.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when tracing.exporter is file")
		}
	default:
		return fmt.Errorf("tracing.exporter must be none, file, stdout or otlp, got %q", cfg.Exporter)
	}
	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0 and 1, got %v", cfg.SampleRate)
	}
	return nil
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if err := ValidateOutput(cfg.Output); err != nil {
		return err
	}
	if cfg.LogLevel != "" && !slices.Contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	return ValidateTracing(cfg.Tracing)
}

// DefaultConfigTemplate returns the commented config written by
// WriteDefaultConfig.
func DefaultConfigTemplate() string {
	return `# lexarg configuration
#
# Every key can be overridden by an environment variable with the LEXARG_
# prefix, e.g. LEXARG_OUTPUT_FORMAT=json.

output:
  format: text      # text (default), json, yaml, or highlight
  color: auto       # auto (default), always, or never
  max_width: 60     # truncate payloads in text output (0 = unlimited)

# Debug log (disabled when empty; LEXARG_DEBUG=1 logs to ./lexarg-debug.log)
log_file: ""
log_level: debug    # debug, info, warn, or error

# Distributed tracing
tracing:
  enabled: false
  exporter: file    # none, file, stdout, or otlp
  file_path: ""     # required for the file exporter
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
  service_name: lexarg
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
