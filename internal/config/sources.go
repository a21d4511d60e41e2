package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
)

const configName = "todo.toml"

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range []string{configName, "." + configName} {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.todo/todo.toml first, then the OS-specific config directory.
func findUserConfigFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".todo", configName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		p := filepath.Join(cfgDir, "todo", configName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return os.Getenv("APPDATA")
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// FieldSource pairs a config key with its current value and origin.
type FieldSource struct {
	Field  string
	Value  any
	Source ConfigSource
}

// Fields returns every config key with its effective value and source,
// sorted by key.
func (cws *ConfigWithSources) Fields() []FieldSource {
	cfg := cws.Config
	values := map[string]any{
		"task_file":      cfg.TaskFile,
		"schema_file":    cfg.SchemaFile,
		"log_level":      cfg.LogLevel,
		"log_format":     cfg.LogFormat,
		"log_timestamps": cfg.LogTimestamps,
		"log_caller":     cfg.LogCaller,
		"log_file":       cfg.LogFile,
	}

	out := make([]FieldSource, 0, len(values))
	for field, v := range values {
		src, ok := cws.Sources[field]
		if !ok {
			src = SourceDefault
		}
		out = append(out, FieldSource{Field: field, Value: v, Source: src})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}
