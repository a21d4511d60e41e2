package todo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports that the task file does not exist yet.
	ErrNotFound = errors.New("task file not found")
	// ErrCorrupt reports that the task file exists but cannot be decoded.
	ErrCorrupt = errors.New("task file is corrupt")
	// ErrInvalidIndex reports a task number that does not select a task.
	ErrInvalidIndex = errors.New("invalid task number")
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// CorruptError describes a task file that could not be decoded.
// Err is set for malformed JSON; Problems is set for schema violations.
type CorruptError struct {
	Path     string
	Err      error
	Problems []*ValidationError
}

func (e *CorruptError) Error() string {
	var b strings.Builder
	b.WriteString("task file ")
	if e.Path != "" {
		b.WriteString(e.Path + " ")
	}
	b.WriteString("is corrupt")

	details := e.Details()
	if len(details) == 0 {
		return b.String()
	}
	b.WriteString(": " + details[0])
	if len(details) > 1 {
		fmt.Fprintf(&b, " (and %d more)", len(details)-1)
	}
	return b.String()
}

// Is matches ErrCorrupt.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}

// Unwrap returns the JSON decoding error, if any.
func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Details returns one human-readable line per problem.
func (e *CorruptError) Details() []string {
	var out []string
	if e.Err != nil {
		out = append(out, e.Err.Error())
	}
	for _, p := range e.Problems {
		out = append(out, p.Error())
	}
	return out
}

// IndexError describes task-number input that does not select a task.
type IndexError struct {
	Input string // raw user input
	Len   int    // number of tasks at lookup time
	Err   error  // parse error; nil when the number is out of range
}

func (e *IndexError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid task number %q: not a number", strings.TrimSpace(e.Input))
	}
	if e.Len == 0 {
		return fmt.Sprintf("invalid task number %s: the list is empty", strings.TrimSpace(e.Input))
	}
	return fmt.Sprintf("invalid task number %s: must be between 1 and %d", strings.TrimSpace(e.Input), e.Len)
}

// Is matches ErrInvalidIndex.
func (e *IndexError) Is(target error) bool {
	return target == ErrInvalidIndex
}

// Unwrap returns the parse error, if any.
func (e *IndexError) Unwrap() error {
	return e.Err
}

// NotANumber reports whether the input failed to parse as a number.
func (e *IndexError) NotANumber() bool {
	return e.Err != nil
}
