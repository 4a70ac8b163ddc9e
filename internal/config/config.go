// Package config loads extract-method settings.
//
// Priority (highest to lowest):
//  1. Environment variables (EXTRACT_METHOD_*)
//  2. Config file (.extract-method.yaml in the working directory, or --config)
//  3. Built-in defaults
//
// Nested keys map to env names with underscores, e.g.
// EXTRACT_METHOD_ANALYSIS_MAX_PARAMETERS.
package config

import (
	"log/slog"
	"strings"

	"github.com/mvp-joe/extract-method/internal/analyzer"
	"github.com/mvp-joe/extract-method/internal/printer"
)

// Config is the complete extract-method configuration.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Printer  PrinterConfig  `yaml:"printer" mapstructure:"printer"`
	Generate GenerateConfig `yaml:"generate" mapstructure:"generate"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// AnalysisConfig tunes the extraction planner.
type AnalysisConfig struct {
	MaxParameters int `yaml:"max_parameters" mapstructure:"max_parameters"` // warn above this many parameters
}

// PrinterConfig controls generated code layout.
type PrinterConfig struct {
	Indent  int  `yaml:"indent" mapstructure:"indent"`     // spaces per level
	UseTabs bool `yaml:"use_tabs" mapstructure:"use_tabs"` // indent with tabs instead
}

// GenerateConfig holds code generation defaults.
type GenerateConfig struct {
	Placement      string `yaml:"placement" mapstructure:"placement"`             // before, after or top
	TransformBreak string `yaml:"transform_break" mapstructure:"transform_break"` // auto, always or never
}

// BatchConfig tunes the batch runner.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"` // requests in flight
	CacheSize   int `yaml:"cache_size" mapstructure:"cache_size"`   // parsed trees kept per run
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn or error
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MaxParameters: analyzer.DefaultMaxParameters,
		},
		Printer: PrinterConfig{
			Indent:  2,
			UseTabs: false,
		},
		Generate: GenerateConfig{
			Placement:      "before",
			TransformBreak: "auto",
		},
		Batch: BatchConfig{
			Concurrency: 4,
			CacheSize:   128,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// PrinterOptions converts the printer section for printer.New.
func (c *Config) PrinterOptions() printer.Config {
	return printer.Config{Indent: c.Printer.Indent, UseTabs: c.Printer.UseTabs}
}

// TransformBreak returns nil for auto, letting the generator decide.
func (c *Config) TransformBreak() *bool {
	var v bool
	switch strings.ToLower(c.Generate.TransformBreak) {
	case "always":
		v = true
	case "never":
		v = false
	default:
		return nil
	}
	return &v
}

// LogLevel maps the configured level name onto slog.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
