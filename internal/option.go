package internal

import (
	"io"
	"time"

	"github.com/starford/dayglow/internal/wallpaper"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	in       io.Reader
	out      io.Writer
	logOut   io.Writer
	runner   wallpaper.Runner
	evaluate wallpaper.ScriptEvaluator
	now      func() time.Time
	goos     string
	session  string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConsole sets where prompts are read from and user messages written to.
func WithConsole(in io.Reader, out io.Writer) Option {
	return func(a *application) {
		a.in = in
		a.out = out
	}
}

// WithLogOutput sets the destination of structured logs.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}

// WithRunner sets how wallpaper commands are executed.
func WithRunner(r wallpaper.Runner) Option {
	return func(a *application) {
		a.runner = r
	}
}

// WithScriptEvaluator replaces the plasmashell D-Bus connection.
func WithScriptEvaluator(fn wallpaper.ScriptEvaluator) Option {
	return func(a *application) {
		a.evaluate = fn
	}
}

// WithNow sets the clock used to pick the phase.
func WithNow(now func() time.Time) Option {
	return func(a *application) {
		a.now = now
	}
}

// WithSession overrides the detected operating system and desktop session
// ($XDG_CURRENT_DESKTOP) used when the configured desktop is "auto".
func WithSession(goos, xdgCurrentDesktop string) Option {
	return func(a *application) {
		a.goos = goos
		a.session = xdgCurrentDesktop
	}
}
