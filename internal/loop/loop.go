// Package loop runs the interactive to-do menu.
package loop

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/v4nilla1ce/todo-app/internal/logging"
	"github.com/v4nilla1ce/todo-app/internal/todo"
)

// Menu choices.
const (
	ChoiceAdd  = "1"
	ChoiceShow = "2"
	ChoiceDone = "3"
	ChoiceExit = "4"
)

// User-facing text.
const (
	menuText = "\n📋 To-Do List:\n" +
		"1️⃣ Add Task\n" +
		"2️⃣ Show Tasks\n" +
		"3️⃣ Mark Task as Done\n" +
		"4️⃣ Exit"
	promptChoice      = "Choose an option: "
	promptDescription = "Enter task description: "
	promptTaskNumber  = "Enter task number to mark as done: "
	tasksHeader       = "\n📌 Tasks:"
	msgMarkedDone     = "✅ Task marked as done!"
	msgInvalidNumber  = "❌ Invalid task number!"
	msgInvalidChoice  = "❌ Invalid choice!"
	msgGoodbye        = "👋 Exiting..."
)

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger for load warnings and debug events.
func WithLogger(l *log.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

// Loop owns the in-memory task list for one interactive session.
type Loop struct {
	store  todo.Store
	tasks  []todo.Task
	in     *Prompter
	out    io.Writer
	logger *log.Logger
}

// New creates a loop reading choices from in and writing to out.
func New(store todo.Store, in io.Reader, out io.Writer, opts ...Option) *Loop {
	l := &Loop{
		store:  store,
		tasks:  []todo.Task{},
		in:     NewPrompter(in, out),
		out:    out,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tasks returns a copy of the current task list.
func (l *Loop) Tasks() []todo.Task {
	out := make([]todo.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Run loads the saved tasks and serves the menu until the user exits or
// input ends. A failed save stops the loop with an error.
func (l *Loop) Run(ctx context.Context) error {
	if f, ok := l.out.(flusher); ok {
		defer f.Flush()
	}

	l.load()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(l.out, menuText)
		choice, err := l.in.Ask(ctx, promptChoice)
		if err != nil {
			return l.inputEnded(err)
		}

		exit, err := l.dispatch(ctx, choice)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return l.inputEnded(err)
			}
			return err
		}
		if exit {
			return nil
		}
	}
}

// load replaces the task list with the saved one. Every failure leaves
// the list empty; only a missing file is silent.
func (l *Loop) load() {
	tasks, err := l.store.Load()
	switch {
	case err == nil:
		l.logger.Debug("loaded tasks", "count", len(tasks))
	case errors.Is(err, todo.ErrNotFound):
		l.logger.Debug("no saved tasks, starting with an empty list")
	case errors.Is(err, todo.ErrCorrupt):
		l.logger.Warn("saved tasks are corrupt, starting with an empty list", "err", err)
	default:
		l.logger.Warn("could not read saved tasks, starting with an empty list", "err", err)
	}
	if tasks == nil {
		tasks = []todo.Task{}
	}
	l.tasks = tasks
}

func (l *Loop) dispatch(ctx context.Context, choice string) (exit bool, err error) {
	switch choice {
	case ChoiceAdd:
		return false, l.add(ctx)
	case ChoiceShow:
		l.show()
		return false, nil
	case ChoiceDone:
		return false, l.markDone(ctx)
	case ChoiceExit:
		fmt.Fprintln(l.out, msgGoodbye)
		return true, nil
	default:
		fmt.Fprintln(l.out, msgInvalidChoice)
		return false, nil
	}
}

func (l *Loop) add(ctx context.Context) error {
	description, err := l.in.Ask(ctx, promptDescription)
	if err != nil {
		return err
	}
	l.tasks = todo.Add(l.tasks, description)
	return l.save()
}

func (l *Loop) show() {
	fmt.Fprintln(l.out, tasksHeader)
	for i, t := range l.tasks {
		fmt.Fprintln(l.out, todo.FormatLine(i+1, t))
	}
}

func (l *Loop) markDone(ctx context.Context) error {
	l.show()
	input, err := l.in.Ask(ctx, promptTaskNumber)
	if err != nil {
		return err
	}

	if _, err := todo.MarkDone(l.tasks, input); err != nil {
		var ie *todo.IndexError
		if errors.As(err, &ie) && ie.NotANumber() {
			// Non-numeric input is ignored without a message.
			l.logger.Debug("ignoring non-numeric task number", "input", input)
			return nil
		}
		l.logger.Debug("task number out of range", "input", input, "count", len(l.tasks))
		fmt.Fprintln(l.out, msgInvalidNumber)
		return nil
	}

	if err := l.save(); err != nil {
		return err
	}
	fmt.Fprintln(l.out, msgMarkedDone)
	return nil
}

func (l *Loop) save() error {
	if err := l.store.Save(l.tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// inputEnded treats a closed input stream like the exit choice.
// Cancellation is returned unchanged.
func (l *Loop) inputEnded(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if !errors.Is(err, io.EOF) {
		return fmt.Errorf("read input: %w", err)
	}
	fmt.Fprintln(l.out)
	fmt.Fprintln(l.out, msgGoodbye)
	return nil
}
