// Package prompt implements line-oriented interactive prompts on a terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/starford/dayglow/internal/apperr"
)

// Console reads answers line by line from in and writes prompts to out.
type Console struct {
	in    *bufio.Reader
	out   io.Writer
	lines chan line
}

type line struct {
	text string
	err  error
}

// NewConsole creates a console prompter.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Ask prints question and returns the trimmed answer. End of input and
// cancellation of ctx (for example by an interrupt) are reported as
// apperr.ErrCancelled.
func (c *Console) Ask(ctx context.Context, question string) (string, error) {
	fmt.Fprint(c.out, question)

	// A read abandoned on cancellation stays pending and is consumed by the
	// next Ask.
	if c.lines == nil {
		c.lines = make(chan line, 1)
		go c.read()
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", apperr.ErrCancelled
	case l := <-c.lines:
		c.lines = nil
		if l.err != nil {
			if errors.Is(l.err, io.EOF) && l.text != "" {
				return strings.TrimSpace(l.text), nil
			}
			fmt.Fprintln(c.out)
			return "", fmt.Errorf("prompt: %w", apperr.ErrCancelled)
		}
		return strings.TrimSpace(l.text), nil
	}
}

func (c *Console) read() {
	text, err := c.in.ReadString('\n')
	c.lines <- line{text: text, err: err}
}

// Say prints an informational message on its own line.
func (c *Console) Say(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}
