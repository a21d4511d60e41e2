package config

import "os"

// loadFromEnv overrides config from environment variables and updates
// source tracking.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setEnv := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TODO_FILE"); v != "" {
		cfg.TaskFile = v
		setEnv("task_file")
	}
	if v := os.Getenv("TODO_SCHEMA"); v != "" {
		cfg.SchemaFile = v
		setEnv("schema_file")
	}

	// Logging configuration
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TODO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TODO_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("TODO_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}
	if v := os.Getenv("TODO_LOG_FILE"); v != "" {
		cfg.LogFile = v
		setEnv("log_file")
	}
}
