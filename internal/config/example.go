package config

import (
	"io"

	"github.com/BurntSushi/toml"
)

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo configuration file
# Values can be overridden by environment variables (TODO_*) or CLI flags

# Task file (relative to the working directory)
task_file = "tasks.json"

# JSON Schema used to validate the task file on load.
# Leave empty to use the built-in schema.
# schema_file = "tasks.schema.json"

# Logging: debug, info, warn, error
log_level = "warn"

# Log format: text, json, logfmt
log_format = "text"

log_timestamps = false
log_caller = false

# Append logs to a file instead of stderr (supports ~ expansion)
# log_file = "~/.todo/todo.log"
`
}

// WriteTOML encodes the effective configuration as TOML.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
