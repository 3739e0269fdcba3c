package wallpaper

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name and folds its stderr into the returned error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// LookPath searches PATH for name.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// command is a Setter that runs one external command built from the path.
type command struct {
	name   string
	runner Runner
	args   func(path string) [][]string
}

func (c command) Name() string { return c.name }

func (c command) Set(ctx context.Context, path string) error {
	for _, argv := range c.args(path) {
		if err := c.runner.Run(ctx, argv[0], argv[1:]...); err != nil {
			return err
		}
	}
	return nil
}
