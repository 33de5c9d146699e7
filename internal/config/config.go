// Package config provides configuration management for the kit export CLI
// using Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with a KITPACK_ prefix. It manages the site store location,
// logging, and export output settings.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
}

// StoreConfig locates the site snapshot the pipeline reads from.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ExportConfig controls where finished archives are written.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Values set purely through env vars do not always survive Unmarshal,
	// so read the common keys back explicitly.
	if viper.IsSet("store.path") {
		config.Store.Path = viper.GetString("store.path")
	}
	if viper.IsSet("logging.level") {
		config.Logging.Level = viper.GetString("logging.level")
	}
	if viper.IsSet("logging.format") {
		config.Logging.Format = viper.GetString("logging.format")
	}
	if viper.IsSet("export.output_dir") {
		config.Export.OutputDir = viper.GetString("export.output_dir")
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Store.Path == "" {
		config.Store.Path = "site.json"
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}
	if config.Export.OutputDir == "" {
		config.Export.OutputDir = "."
	}
}
