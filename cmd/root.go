// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/v4nilla1ce/todo-app/internal/config"
	"github.com/v4nilla1ce/todo-app/internal/logging"
	"github.com/v4nilla1ce/todo-app/internal/loop"
	"github.com/v4nilla1ce/todo-app/internal/todo"
	"github.com/v4nilla1ce/todo-app/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// env carries the streams and shared state of one CLI invocation.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	cws    *config.ConfigWithSources
	logger *log.Logger
}

func (e *env) cfg() *config.Config {
	return e.cws.Config
}

// Run executes the todo CLI on the process's standard streams.
func Run(ctx context.Context, args []string) error {
	return RunIO(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

// RunIO executes the todo CLI with explicit streams.
func RunIO(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	// Determine the subcommand
	subcommand := "menu"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	logger, closeLog, err := newLogger(cws.Config, stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Debug("starting", "command", subcommand, "task_file", cws.Config.TaskFile)

	e := &env{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		cws:    cws,
		logger: logger,
	}

	// Execute the subcommand
	switch subcommand {
	case "menu":
		return menuCommand(ctx, e, remainingArgs)
	case "ls":
		return lsCommand(e, remainingArgs)
	case "add":
		return addCommand(e, remainingArgs)
	case "done":
		return doneCommand(e, remainingArgs)
	case "tui":
		return tuiCommand(ctx, e, remainingArgs)
	case "doctor":
		return doctorCommand(e, remainingArgs)
	case "config":
		return configCommand(e, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand(stdout)
	case "help", "--help", "-h":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newLogger builds the run logger. Logs go to stderr unless log_file is set.
func newLogger(cfg *config.Config, stderr io.Writer) (*log.Logger, func(), error) {
	w := stderr
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger := logging.NewFromConfig(w, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	return logging.WithRunID(logger, logging.NewRunID()), closeFn, nil
}

// openStore returns the file store for the configured task file and schema.
func openStore(e *env) (*todo.FileStore, error) {
	schema, err := todo.LoadSchema(e.cfg().SchemaFile)
	if err != nil {
		return nil, err
	}
	return todo.NewFileStore(e.cfg().TaskFile, todo.WithSchema(schema), todo.WithLogger(e.logger)), nil
}

// loadTasks reads the saved list. Failures start an empty list; only a
// missing file is silent.
func loadTasks(e *env, store todo.Store) []todo.Task {
	tasks, err := store.Load()
	switch {
	case err == nil:
	case errors.Is(err, todo.ErrNotFound):
		e.logger.Debug("no saved tasks, starting with an empty list")
	default:
		e.logger.Warn("could not load saved tasks, starting with an empty list", "err", err)
	}
	if tasks == nil {
		tasks = []todo.Task{}
	}
	return tasks
}

func noArgs(name string, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%s: unexpected arguments: %v", name, args)
	}
	return nil
}

// menuCommand runs the interactive numbered menu.
func menuCommand(ctx context.Context, e *env, args []string) error {
	if err := noArgs("menu", args); err != nil {
		return err
	}
	store, err := openStore(e)
	if err != nil {
		return err
	}
	return loop.New(store, e.stdin, e.stdout, loop.WithLogger(e.logger)).Run(ctx)
}

// lsCommand prints the task listing once.
func lsCommand(e *env, args []string) error {
	if err := noArgs("ls", args); err != nil {
		return err
	}
	store, err := openStore(e)
	if err != nil {
		return err
	}

	tasks := loadTasks(e, store)
	fmt.Fprintln(e.stdout, "📌 Tasks:")
	for i, t := range tasks {
		fmt.Fprintln(e.stdout, todo.FormatLine(i+1, t))
	}
	return nil
}

// addCommand appends one task built from the joined arguments.
func addCommand(e *env, args []string) error {
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		return fmt.Errorf("add: missing task description")
	}
	store, err := openStore(e)
	if err != nil {
		return err
	}

	tasks := todo.Add(loadTasks(e, store), description)
	if err := store.Save(tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	fmt.Fprintf(e.stdout, "Added %s\n", todo.FormatLine(len(tasks), tasks[len(tasks)-1]))
	return nil
}

// doneCommand marks the task at a 1-based position as done.
func doneCommand(e *env, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("done: expected exactly one task number")
	}
	store, err := openStore(e)
	if err != nil {
		return err
	}

	tasks := loadTasks(e, store)
	if _, err := todo.MarkDone(tasks, args[0]); err != nil {
		return err
	}
	if err := store.Save(tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	fmt.Fprintln(e.stdout, "✅ Task marked as done!")
	return nil
}

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, e *env, args []string) error {
	if err := noArgs("tui", args); err != nil {
		return err
	}
	store, err := openStore(e)
	if err != nil {
		return err
	}
	return ui.RunTUI(ctx, store, ui.WithLogger(e.logger), ui.WithOutput(e.stdout))
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "todo version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todo - A small to-do list manager")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  menu               Interactive menu (default command)")
	fmt.Fprintln(w, "  ls                 List tasks")
	fmt.Fprintln(w, "  add <description>  Add a task")
	fmt.Fprintln(w, "  done <n>           Mark task n as done")
	fmt.Fprintln(w, "  tui                Launch terminal UI")
	fmt.Fprintln(w, "  doctor             Check config and task file validity")
	fmt.Fprintln(w, "  config             Show effective config and where each value came from")
	fmt.Fprintln(w, "  version            Show version information")
	fmt.Fprintln(w, "  help               Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
	fmt.Fprintln(w, "  -toml")
	fmt.Fprintln(w, "        Print the effective config as TOML")
}
