package todo

import (
	"fmt"
	"strconv"
	"strings"
)

// Status glyphs shown next to each task.
const (
	GlyphDone    = "✅"
	GlyphPending = "❌"
)

// Task represents a single task in the list.
type Task struct {
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// NewTask returns a pending task. The description is kept verbatim.
func NewTask(description string) Task {
	return Task{Description: description}
}

// Glyph returns the status glyph for the task.
func (t Task) Glyph() string {
	if t.Done {
		return GlyphDone
	}
	return GlyphPending
}

// FormatLine renders a task as "<pos>. <glyph> <description>".
// pos is the 1-based position in the list.
func FormatLine(pos int, t Task) string {
	return fmt.Sprintf("%d. %s %s", pos, t.Glyph(), t.Description)
}

// Add appends a new pending task and returns the grown list.
func Add(tasks []Task, description string) []Task {
	return append(tasks, NewTask(description))
}

// ParseIndex converts 1-based user input into a 0-based index into a list
// of n tasks. Errors are *IndexError values matching ErrInvalidIndex.
func ParseIndex(input string, n int) (int, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "+")

	pos, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return -1, &IndexError{Input: input, Len: n, Err: err}
	}
	if pos == 0 || pos > uint64(n) {
		return -1, &IndexError{Input: input, Len: n}
	}
	return int(pos - 1), nil
}

// MarkDone marks the task at the 1-based position given by input as done
// and returns its 0-based index. The list is untouched on error.
func MarkDone(tasks []Task, input string) (int, error) {
	i, err := ParseIndex(input, len(tasks))
	if err != nil {
		return -1, err
	}
	tasks[i].Done = true
	return i, nil
}

// Counts returns the number of done and pending tasks.
func Counts(tasks []Task) (done, pending int) {
	for _, t := range tasks {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return done, pending
}
