package cmd

import (
	"flag"
	"fmt"
	"io"

	"github.com/v4nilla1ce/todo-app/internal/config"
)

// configCommand prints the effective config with value sources.
func configCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("todo config", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	example := fs.Bool("example", false, "Print an example config file")
	asTOML := fs.Bool("toml", false, "Print the effective config as TOML")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := noArgs("config", fs.Args()); err != nil {
		return err
	}

	switch {
	case *example:
		_, err := io.WriteString(e.stdout, config.ExampleConfig())
		return err
	case *asTOML:
		return e.cfg().WriteTOML(e.stdout)
	}

	for _, f := range e.cws.Files {
		fmt.Fprintf(e.stdout, "# loaded %s\n", f)
	}
	for _, field := range e.cws.Fields() {
		fmt.Fprintf(e.stdout, "%-15s = %-40s (%s)\n", field.Field, formatValue(field.Value), field.Source)
	}
	return nil
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}
