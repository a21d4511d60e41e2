package todo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const bundledSchemaURL = "https://github.com/v4nilla1ce/todo-app/tasks.schema.json"

// BundledSchemaJSON is the built-in JSON Schema for the task file.
const BundledSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "todo task file",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["description", "done"],
    "properties": {
      "description": { "type": "string" },
      "done": { "type": "boolean" }
    }
  }
}
`

var bundledSchema = &Schema{
	Source:   "built-in",
	compiled: jsonschema.MustCompileString(bundledSchemaURL, BundledSchemaJSON),
}

// Schema is a compiled task file schema.
type Schema struct {
	// Source is "built-in" or the absolute path the schema was read from.
	Source   string
	compiled *jsonschema.Schema
}

// BundledSchema returns the built-in task file schema.
func BundledSchema() *Schema {
	return bundledSchema
}

// LoadSchema compiles a JSON Schema file. An empty path returns the
// built-in schema.
func LoadSchema(path string) (*Schema, error) {
	if path == "" {
		return bundledSchema, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	compiled, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema file: %w", err)
	}
	return &Schema{Source: absPath, compiled: compiled}, nil
}

// Validate checks a decoded JSON document (as produced by json.Unmarshal
// into an interface{}) and returns one ValidationError per failing location.
func (s *Schema) Validate(doc interface{}) []*ValidationError {
	err := s.compiled.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []*ValidationError{{Err: err}}
	}

	var out []*ValidationError
	collectSchemaErrors(&out, ve)
	return out
}

func collectSchemaErrors(out *[]*ValidationError, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*out = append(*out, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(out, cause)
	}
}

// jsonPointerToPath turns "/0/done" into "[0].done".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
