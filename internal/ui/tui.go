// Package ui provides the optional terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/v4nilla1ce/todo-app/internal/logging"
	"github.com/v4nilla1ce/todo-app/internal/todo"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	logger *log.Logger
	output io.Writer
}

// WithLogger sets the logger for load warnings.
func WithLogger(l *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOutput sets the terminal the TUI draws on. Defaults to os.Stdout.
func WithOutput(w io.Writer) TUIOption {
	return func(c *tuiConfig) {
		if w != nil {
			c.output = w
		}
	}
}

// RunTUI starts the TUI over store and blocks until the user quits.
// A failed save ends the program and is returned.
func RunTUI(ctx context.Context, store todo.Store, opts ...TUIOption) error {
	c := &tuiConfig{
		logger: logging.Discard(),
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(store, c.logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(c.output))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(*tuiModel); ok && m.saveErr != nil {
		return m.saveErr
	}
	return nil
}

type tuiModel struct {
	store    todo.Store
	logger   *log.Logger
	styles   styles
	tasks    []todo.Task
	cursor   int
	adding   bool
	input    textinput.Model
	notice   string
	loadErr  error
	saveErr  error
	showHelp bool
}

func newTUIModel(store todo.Store, logger *log.Logger) *tuiModel {
	if logger == nil {
		logger = logging.Discard()
	}
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "task description"
	input.CharLimit = 0

	return &tuiModel{
		store:  store,
		logger: logger,
		styles: newStyles(),
		tasks:  []todo.Task{},
		input:  input,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.reload()
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.adding {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.adding {
		return m.updateAdding(key)
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case " ", "enter", "x":
		return m, m.markSelected()
	case "a":
		m.adding = true
		m.notice = ""
		m.input.SetValue("")
		return m, m.input.Focus()
	case "r":
		m.reload()
		if m.loadErr == nil {
			m.notice = "Reloaded"
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *tuiModel) updateAdding(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		description := strings.TrimSpace(m.input.Value())
		m.stopAdding()
		m.tasks = todo.Add(m.tasks, description)
		if err := m.save(); err != nil {
			return m, tea.Quit
		}
		m.cursor = len(m.tasks) - 1
		m.notice = "Task added"
		return m, nil
	case "esc":
		m.stopAdding()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m *tuiModel) stopAdding() {
	m.adding = false
	m.input.Blur()
	m.input.SetValue("")
}

func (m *tuiModel) markSelected() tea.Cmd {
	if len(m.tasks) == 0 {
		return nil
	}
	if _, err := todo.MarkDone(m.tasks, fmt.Sprint(m.cursor+1)); err != nil {
		m.notice = err.Error()
		return nil
	}
	if err := m.save(); err != nil {
		return tea.Quit
	}
	m.notice = "✅ Task marked as done!"
	return nil
}

func (m *tuiModel) save() error {
	if err := m.store.Save(m.tasks); err != nil {
		m.saveErr = fmt.Errorf("save tasks: %w", err)
		return m.saveErr
	}
	return nil
}

// reload replaces the list with the saved one. Failures leave it empty.
func (m *tuiModel) reload() {
	tasks, err := m.store.Load()
	m.loadErr = nil
	switch {
	case err == nil:
	case errors.Is(err, todo.ErrNotFound):
		m.logger.Debug("no saved tasks, starting with an empty list")
	default:
		m.logger.Warn("could not load saved tasks, starting with an empty list", "err", err)
		m.loadErr = err
	}
	if tasks == nil {
		tasks = []todo.Task{}
	}
	m.tasks = tasks
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.styles)

	if m.showHelp {
		writeHelp(&b, m.styles)
		writeFooter(&b, m.styles, m.tasks)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString(m.styles.warn.Render("Could not load tasks: "+m.loadErr.Error()) + "\n\n")
	}
	writeTasks(&b, m.styles, m.tasks, m.cursor)
	if m.adding {
		b.WriteString(m.styles.input.Render(m.input.View()) + "\n")
		b.WriteString(m.styles.hint.Render("enter to save, esc to cancel") + "\n\n")
	}
	if m.notice != "" {
		b.WriteString(m.styles.status.Render(m.notice) + "\n\n")
	}
	writeFooter(&b, m.styles, m.tasks)
	return b.String()
}

func writeTitle(b *strings.Builder, s styles) {
	b.WriteString(s.title.Render("📋 To-Do List") + "\n\n")
}

func writeTasks(b *strings.Builder, s styles, tasks []todo.Task, cursor int) {
	if len(tasks) == 0 {
		b.WriteString(s.empty.Render("No tasks yet. Press a to add one.") + "\n\n")
		return
	}
	for i, t := range tasks {
		line := todo.FormatLine(i+1, t)
		if i == cursor {
			b.WriteString(s.itemSel.Render("> "+line) + "\n")
			continue
		}
		b.WriteString(s.item.Render(line) + "\n")
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder, s styles) {
	b.WriteString(s.header.Render("Keyboard Shortcuts") + "\n\n")
	b.WriteString("  up, k             Move up\n")
	b.WriteString("  down, j           Move down\n")
	b.WriteString("  space, enter, x   Mark selected task as done\n")
	b.WriteString("  a                 Add a task\n")
	b.WriteString("  r                 Reload from disk\n")
	b.WriteString("  ?                 Toggle this help screen\n")
	b.WriteString("  q, ctrl+c         Quit\n\n")
}

func writeFooter(b *strings.Builder, s styles, tasks []todo.Task) {
	done, pending := todo.Counts(tasks)
	b.WriteString(s.hint.Render(fmt.Sprintf("%d done, %d pending | ? for help | q to quit", done, pending)) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
