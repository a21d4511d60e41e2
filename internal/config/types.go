package config

import (
	"fmt"
	"strings"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultTaskFile  = "tasks.json"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for todo.
type Config struct {
	// Paths
	TaskFile   string `toml:"task_file"`
	SchemaFile string `toml:"schema_file"` // Empty means the embedded task-file schema

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogFile       string `toml:"log_file"` // Empty means stderr

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// fileConfig mirrors Config with pointer fields so a decoded file can tell
// "absent" apart from "set to the zero value".
type fileConfig struct {
	TaskFile      *string `toml:"task_file"`
	SchemaFile    *string `toml:"schema_file"`
	LogLevel      *string `toml:"log_level"`
	LogFormat     *string `toml:"log_format"`
	LogTimestamps *bool   `toml:"log_timestamps"`
	LogCaller     *bool   `toml:"log_caller"`
	LogFile       *string `toml:"log_file"`
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error", "fatal"}
	validLogFormats = []string{"text", "json", "logfmt"}
)

// Validate checks values that cannot be caught by TOML decoding.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TaskFile) == "" {
		return fmt.Errorf("task_file must not be empty")
	}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log_level %q, must be one of: %s", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("invalid log_format %q, must be one of: %s", c.LogFormat, strings.Join(validLogFormats, ", "))
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
