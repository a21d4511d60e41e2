package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/v4nilla1ce/todo-app/internal/logging"
)

// Store reads and writes the whole task list as one unit.
type Store interface {
	// Load returns the saved tasks. On any error the returned list is
	// empty and non-nil.
	Load() ([]Task, error)
	// Save replaces the saved tasks with tasks.
	Save(tasks []Task) error
}

// StoreOption configures a FileStore.
type StoreOption func(*FileStore)

// WithSchema sets the schema used to validate the file on load.
func WithSchema(s *Schema) StoreOption {
	return func(st *FileStore) {
		if s != nil {
			st.schema = s
		}
	}
}

// WithLogger sets the logger for load and save events.
func WithLogger(l *log.Logger) StoreOption {
	return func(st *FileStore) {
		if l != nil {
			st.logger = l
		}
	}
}

// FileStore keeps the task list in a single JSON file.
type FileStore struct {
	path   string
	schema *Schema
	logger *log.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string, opts ...StoreOption) *FileStore {
	s := &FileStore{
		path:   path,
		schema: bundledSchema,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Schema returns the schema used on load.
func (s *FileStore) Schema() *Schema {
	return s.schema
}

// Load reads and decodes the task file.
func (s *FileStore) Load() ([]Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("task file not found", "path", s.path)
			return []Task{}, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		s.logger.Error("failed to read task file", "path", s.path, "err", err)
		return []Task{}, fmt.Errorf("read task file: %w", err)
	}

	tasks, err := Decode(data, s.schema)
	if err != nil {
		var corrupt *CorruptError
		if errors.As(err, &corrupt) {
			corrupt.Path = s.path
		}
		return []Task{}, err
	}

	s.logger.Debug("tasks loaded", "path", s.path, "count", len(tasks))
	return tasks, nil
}

// Save encodes tasks and overwrites the task file.
func (s *FileStore) Save(tasks []Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.logger.Error("failed to save tasks", "path", s.path, "err", err)
		return fmt.Errorf("write task file: %w", err)
	}

	s.logger.Info("tasks saved", "path", s.path, "count", len(tasks))
	return nil
}

// Encode renders tasks in the task file format.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses task file contents and validates them against schema.
// A nil schema means the built-in one. Blank input is an empty list.
// Failures are returned as *CorruptError.
func Decode(data []byte, schema *Schema) ([]Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Task{}, nil
	}
	if schema == nil {
		schema = bundledSchema
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Err: err}
	}
	if problems := schema.Validate(doc); len(problems) > 0 {
		return nil, &CorruptError{Problems: problems}
	}

	return tasksFromDocument(doc)
}

// tasksFromDocument reads the exact "description" and "done" keys from a
// decoded document. Other keys, including case variants, are ignored.
func tasksFromDocument(doc interface{}) ([]Task, error) {
	items, ok := doc.([]interface{})
	if !ok {
		return nil, &CorruptError{Problems: []*ValidationError{{Err: errors.New("expected an array of tasks")}}}
	}

	tasks := make([]Task, 0, len(items))
	var problems []*ValidationError
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			problems = append(problems, &ValidationError{Path: fmt.Sprintf("[%d]", i), Err: errors.New("expected an object")})
			continue
		}
		var t Task
		if v, ok := obj["description"]; ok {
			if t.Description, ok = v.(string); !ok {
				problems = append(problems, &ValidationError{Path: fmt.Sprintf("[%d].description", i), Err: errors.New("expected a string")})
			}
		}
		if v, ok := obj["done"]; ok {
			if t.Done, ok = v.(bool); !ok {
				problems = append(problems, &ValidationError{Path: fmt.Sprintf("[%d].done", i), Err: errors.New("expected a boolean")})
			}
		}
		tasks = append(tasks, t)
	}
	if len(problems) > 0 {
		return nil, &CorruptError{Problems: problems}
	}
	return tasks, nil
}
