package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory.
const FileName = ".extract-method.yaml"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a loader that looks for .extract-method.yaml in rootDir.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// NewFileLoader creates a loader for an explicit config file, which must exist.
func NewFileLoader(path string) Loader {
	return &loader{configFile: path}
}

var envKeys = []string{
	"analysis.max_parameters",
	"printer.indent",
	"printer.use_tabs",
	"generate.placement",
	"generate.transform_break",
	"batch.concurrency",
	"batch.cache_size",
	"log.level",
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (EXTRACT_METHOD_*)
// 2. Config file
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.AddConfigPath(l.rootDir)
	}

	v.SetEnvPrefix("EXTRACT_METHOD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing default file is fine; a missing explicit file is not.
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("analysis.max_parameters", defaults.Analysis.MaxParameters)

	v.SetDefault("printer.indent", defaults.Printer.Indent)
	v.SetDefault("printer.use_tabs", defaults.Printer.UseTabs)

	v.SetDefault("generate.placement", defaults.Generate.Placement)
	v.SetDefault("generate.transform_break", defaults.Generate.TransformBreak)

	v.SetDefault("batch.concurrency", defaults.Batch.Concurrency)
	v.SetDefault("batch.cache_size", defaults.Batch.CacheSize)

	v.SetDefault("log.level", defaults.Log.Level)
}

// LoadConfig loads from path when given, otherwise from the working directory.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return NewFileLoader(path).Load()
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}
