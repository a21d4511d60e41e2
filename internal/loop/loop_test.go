package loop

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/v4nilla1ce/todo-app/internal/testutil"
	"github.com/v4nilla1ce/todo-app/internal/todo"
)

// memStore is an in-memory todo.Store with injectable failures.
type memStore struct {
	tasks   []todo.Task
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load() ([]todo.Task, error) {
	if m.loadErr != nil {
		return []todo.Task{}, m.loadErr
	}
	return append([]todo.Task{}, m.tasks...), nil
}

func (m *memStore) Save(tasks []todo.Task) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tasks = append([]todo.Task{}, tasks...)
	return nil
}

func runLoop(t *testing.T, store todo.Store, input string, opts ...Option) (*Loop, string, error) {
	t.Helper()
	var out bytes.Buffer
	l := New(store, strings.NewReader(input), &out, opts...)
	err := l.Run(context.Background())
	return l, out.String(), err
}

func TestBuyMilkScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	store := todo.NewFileStore(path)

	l, out, err := runLoop(t, store, "1\nbuy milk\n2\n3\n1\n2\n4\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	testutil.GoldenString(t, "buy_milk", out)

	want := []todo.Task{{Description: "buy milk", Done: true}}
	got := l.Tasks()
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("in-memory tasks: got %+v, want %+v", got, want)
	}

	reloaded, err := todo.NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded) != 1 || reloaded[0] != want[0] {
		t.Errorf("reloaded tasks: got %+v, want %+v", reloaded, want)
	}

	// A second session sees the saved state.
	_, out, err = runLoop(t, todo.NewFileStore(path), "2\n4\n")
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !strings.Contains(out, "1. ✅ buy milk\n") {
		t.Errorf("second session should list the done task:\n%s", out)
	}
}

func TestInvalidInputTranscript(t *testing.T) {
	store := &memStore{}
	_, out, err := runLoop(t, store, "7\n3\n1\n3\nabc\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	testutil.GoldenString(t, "invalid_input", out)
	if store.saves != 0 {
		t.Errorf("no action should have saved, got %d saves", store.saves)
	}
}

func TestMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	l, out, err := runLoop(t, todo.NewFileStore(path), "2\n4\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(l.Tasks()) != 0 {
		t.Errorf("want empty list, got %+v", l.Tasks())
	}
	if !strings.Contains(out, "📌 Tasks:\n\n📋") {
		t.Errorf("listing should be empty:\n%s", out)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("loading and listing must not create the file, stat err = %v", err)
	}
}

func TestCorruptFileStartsEmptyWithWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.WarnLevel})

	l, out, err := runLoop(t, todo.NewFileStore(path), "2\n4\n", WithLogger(logger))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(l.Tasks()) != 0 {
		t.Errorf("want empty list, got %+v", l.Tasks())
	}
	if !strings.Contains(out, "👋 Exiting...") {
		t.Errorf("loop should run normally:\n%s", out)
	}
	if !strings.Contains(logs.String(), "corrupt") {
		t.Errorf("expected a corrupt-file warning, got:\n%s", logs.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{not json" {
		t.Errorf("corrupt file must be left alone until a mutation, got %q", data)
	}
}

func TestNotFoundIsSilent(t *testing.T) {
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.WarnLevel})
	store := &memStore{loadErr: todo.ErrNotFound}

	if _, _, err := runLoop(t, store, "4\n", WithLogger(logger)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("missing file should not warn, got:\n%s", logs.String())
	}
}

func TestUnreadableFileWarns(t *testing.T) {
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.WarnLevel})
	store := &memStore{loadErr: errors.New("permission denied")}

	if _, _, err := runLoop(t, store, "4\n", WithLogger(logger)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(logs.String(), "permission denied") {
		t.Errorf("expected read failure warning, got:\n%s", logs.String())
	}
}

func TestAddAppendsAndSaves(t *testing.T) {
	store := &memStore{tasks: []todo.Task{{Description: "existing", Done: true}}}

	_, out, err := runLoop(t, store, "1\nfirst\n1\n  second  \n1\n\n4\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []todo.Task{
		{Description: "existing", Done: true},
		{Description: "first"},
		{Description: "second"},
		{Description: ""},
	}
	if len(store.tasks) != len(want) {
		t.Fatalf("saved tasks: got %+v, want %+v", store.tasks, want)
	}
	for i := range want {
		if store.tasks[i] != want[i] {
			t.Errorf("saved task %d: got %+v, want %+v", i, store.tasks[i], want[i])
		}
	}
	if store.saves != 3 {
		t.Errorf("saves: got %d, want 3", store.saves)
	}
	if strings.Contains(out, "Invalid") {
		t.Errorf("unexpected error message:\n%s", out)
	}
}

func TestMarkDone(t *testing.T) {
	seed := func() []todo.Task {
		return []todo.Task{{Description: "a"}, {Description: "b"}, {Description: "c"}}
	}

	tests := []struct {
		name        string
		input       string
		wantDone    []bool
		wantSaves   int
		wantMessage string
		noMessage   []string
	}{
		{
			name:        "valid index",
			input:       "3\n2\n4\n",
			wantDone:    []bool{false, true, false},
			wantSaves:   1,
			wantMessage: "✅ Task marked as done!",
		},
		{
			name:        "already done stays done",
			input:       "3\n1\n3\n1\n4\n",
			wantDone:    []bool{true, false, false},
			wantSaves:   2,
			wantMessage: "✅ Task marked as done!",
		},
		{
			name:        "zero",
			input:       "3\n0\n4\n",
			wantDone:    []bool{false, false, false},
			wantMessage: "❌ Invalid task number!",
			noMessage:   []string{"marked as done"},
		},
		{
			name:        "past end",
			input:       "3\n4\n4\n",
			wantDone:    []bool{false, false, false},
			wantMessage: "❌ Invalid task number!",
			noMessage:   []string{"marked as done"},
		},
		{
			name:      "not a number is silent",
			input:     "3\nsecond\n4\n",
			wantDone:  []bool{false, false, false},
			noMessage: []string{"Invalid task number", "marked as done"},
		},
		{
			name:      "negative is silent",
			input:     "3\n-1\n4\n",
			wantDone:  []bool{false, false, false},
			noMessage: []string{"Invalid task number", "marked as done"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{tasks: seed()}
			l, out, err := runLoop(t, store, tt.input)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			tasks := l.Tasks()
			for i, want := range tt.wantDone {
				if tasks[i].Done != want {
					t.Errorf("task %d done: got %v, want %v", i+1, tasks[i].Done, want)
				}
				if tasks[i].Description != seed()[i].Description {
					t.Errorf("task %d description changed to %q", i+1, tasks[i].Description)
				}
			}
			if store.saves != tt.wantSaves {
				t.Errorf("saves: got %d, want %d", store.saves, tt.wantSaves)
			}
			if tt.wantMessage != "" && !strings.Contains(out, tt.wantMessage) {
				t.Errorf("output missing %q:\n%s", tt.wantMessage, out)
			}
			for _, msg := range tt.noMessage {
				if strings.Contains(out, msg) {
					t.Errorf("output should not contain %q:\n%s", msg, out)
				}
			}
		})
	}
}

func TestNonNumericIndexLogsAtDebug(t *testing.T) {
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})
	store := &memStore{tasks: []todo.Task{{Description: "a"}}}

	if _, _, err := runLoop(t, store, "3\nx\n4\n", WithLogger(logger)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(logs.String(), "non-numeric") {
		t.Errorf("expected debug entry, got:\n%s", logs.String())
	}
}

func TestInvalidChoices(t *testing.T) {
	_, out, err := runLoop(t, &memStore{}, "9\n\nfoo\n 5 \n4\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Count(out, "❌ Invalid choice!"); got != 4 {
		t.Errorf("invalid choice messages: got %d, want 4\n%s", got, out)
	}
}

func TestChoiceIsTrimmed(t *testing.T) {
	store := &memStore{tasks: []todo.Task{{Description: "a"}}}
	_, out, err := runLoop(t, store, "  2  \n\t4\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "1. ❌ a") {
		t.Errorf("padded choice should still list tasks:\n%s", out)
	}
	if strings.Contains(out, "Invalid choice") {
		t.Errorf("padded choice should be accepted:\n%s", out)
	}
}

func TestEndOfInputExits(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no input", ""},
		{"eof at description", "1\n"},
		{"eof at task number", "3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			_, out, err := runLoop(t, store, tt.input)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !strings.HasSuffix(out, "\n👋 Exiting...\n") {
				t.Errorf("output should end with goodbye:\n%q", out)
			}
			if store.saves != 0 {
				t.Errorf("saves: got %d, want 0", store.saves)
			}
		})
	}
}

func TestFinalLineWithoutNewline(t *testing.T) {
	store := &memStore{}
	l, _, err := runLoop(t, store, "1\nlast line")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := l.Tasks(); len(got) != 1 || got[0].Description != "last line" {
		t.Errorf("got %+v", got)
	}
}

func TestSaveFailureStopsLoop(t *testing.T) {
	writeErr := errors.New("disk full")
	store := &memStore{saveErr: writeErr}

	_, out, err := runLoop(t, store, "1\nbuy milk\n2\n4\n")
	if !errors.Is(err, writeErr) {
		t.Fatalf("Run: got %v, want wrapped %v", err, writeErr)
	}
	if !strings.Contains(err.Error(), "save tasks") {
		t.Errorf("error should be wrapped with context: %v", err)
	}
	if strings.Contains(out, "📌 Tasks:") {
		t.Errorf("loop must stop at the failed save:\n%s", out)
	}
}

func TestSaveFailureOnMarkDone(t *testing.T) {
	store := &memStore{tasks: []todo.Task{{Description: "a"}}, saveErr: errors.New("read-only")}
	_, out, err := runLoop(t, store, "3\n1\n4\n")
	if err == nil {
		t.Fatal("expected save error")
	}
	if strings.Contains(out, "marked as done") {
		t.Errorf("success message must not print after a failed save:\n%s", out)
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := New(&memStore{}, strings.NewReader("2\n"), &out).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run: got %v, want context.Canceled", err)
	}
	if out.Len() != 0 {
		t.Errorf("no menu should print after cancellation:\n%s", out.String())
	}
}

func TestRunStopsWhenCanceledWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &memStore{}
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- New(store, pr, &out).Run(ctx)
	}()

	// Pick "add" so the loop waits on the description prompt.
	if _, err := io.WriteString(pw, "1\n"); err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run: got %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the context was canceled")
	}
	if store.saves != 0 {
		t.Errorf("saves: got %d, want 0", store.saves)
	}
}
