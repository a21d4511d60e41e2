package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/v4nilla1ce/todo-app/internal/todo"
)

// doctorCommand checks config, schema, task file and log destination.
func doctorCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("todo doctor", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := noArgs("doctor", fs.Args()); err != nil {
		return err
	}

	cfg := e.cfg()
	w := e.stdout

	fmt.Fprintln(w, "todo doctor")
	fmt.Fprintln(w, "===========")
	fmt.Fprintln(w)

	allOK := true

	// Config files
	fmt.Fprintln(w, "Config:")
	if len(e.cws.Files) == 0 {
		fmt.Fprintln(w, "  ✅ No config files (using defaults)")
	}
	for _, f := range e.cws.Files {
		fmt.Fprintf(w, "  ✅ %s\n", f)
	}
	fmt.Fprintln(w)

	// Schema
	var schema *todo.Schema
	if cfg.SchemaFile == "" {
		fmt.Fprintln(w, "Schema: built-in")
		schema = todo.BundledSchema()
		fmt.Fprintln(w, "  ✅ OK")
	} else {
		fmt.Fprintf(w, "Schema file: %s\n", cfg.SchemaFile)
		s, err := todo.LoadSchema(cfg.SchemaFile)
		if err != nil {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		} else {
			schema = s
			fmt.Fprintln(w, "  ✅ OK")
		}
	}
	fmt.Fprintln(w)

	// Task file
	fmt.Fprintf(w, "Task file: %s\n", cfg.TaskFile)
	info, err := os.Stat(cfg.TaskFile)
	switch {
	case err != nil && os.IsNotExist(err):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first change)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	case schema != nil:
		tasks, loadErr := todo.NewFileStore(cfg.TaskFile, todo.WithSchema(schema)).Load()
		var corrupt *todo.CorruptError
		switch {
		case errors.As(loadErr, &corrupt):
			fmt.Fprintln(w, "  ❌ Corrupt:")
			for _, d := range corrupt.Details() {
				fmt.Fprintf(w, "     - %s\n", d)
			}
			allOK = false
		case loadErr != nil:
			fmt.Fprintf(w, "  ❌ Load error: %v\n", loadErr)
			allOK = false
		default:
			done, pending := todo.Counts(tasks)
			fmt.Fprintf(w, "  ✅ Valid (%d tasks: %d done, %d pending)\n", len(tasks), done, pending)
			if *verbose {
				for i, t := range tasks {
					fmt.Fprintf(w, "    %s\n", todo.FormatLine(i+1, t))
				}
			}
		}
	}
	fmt.Fprintln(w)

	// Log destination
	if cfg.LogFile == "" {
		fmt.Fprintf(w, "Logs: stderr (level %s, format %s)\n", cfg.LogLevel, cfg.LogFormat)
	} else {
		fmt.Fprintf(w, "Logs: %s (level %s, format %s)\n", cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}
