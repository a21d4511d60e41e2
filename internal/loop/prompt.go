package loop

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// flusher is implemented by buffered writers such as *bufio.Writer.
type flusher interface {
	Flush() error
}

type lineResult struct {
	line string
	err  error
}

// Prompter reads one trimmed line of input per prompt.
type Prompter struct {
	r *bufio.Reader
	w io.Writer

	// pending holds the result of a read still in flight. A read abandoned
	// by a cancelled Ask is picked up by the next Ask.
	pending chan lineResult
}

// NewPrompter returns a Prompter reading from r and prompting on w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

// Ask writes prompt, flushes it so it is visible before blocking, and
// returns the next input line with surrounding whitespace removed.
// A final line without a newline is still returned; io.EOF is returned
// only once no input is left. If ctx ends first, Ask returns ctx.Err().
func (p *Prompter) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := io.WriteString(p.w, prompt); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	if f, ok := p.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return "", fmt.Errorf("flush prompt: %w", err)
		}
	}

	if p.pending == nil {
		ch := make(chan lineResult, 1)
		p.pending = ch
		go func() {
			line, err := p.readLine()
			ch <- lineResult{line: line, err: err}
		}()
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-p.pending:
		p.pending = nil
		return res.line, res.err
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
