// Package watch re-runs a job periodically and whenever watched files change.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// Debounce is how long file events are coalesced before the job runs.
const Debounce = 200 * time.Millisecond

// Func is the job. Its error is logged and does not stop the loop.
type Func func(ctx context.Context) error

// Watch runs fn immediately, then after every interval tick and after each
// burst of changes under paths. A directory path reacts to any entry inside
// it; a file path (which need not exist yet) reacts only to that file, so
// its siblings do not trigger runs. Paths whose directory does not exist are
// skipped. It returns when ctx is cancelled.
func Watch(ctx context.Context, interval time.Duration, paths []string, logger *slog.Logger, fn Func) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	t := newTargets()
	for _, p := range paths {
		dir, ok := t.add(filepath.Clean(p))
		if _, statErr := os.Stat(dir); statErr != nil {
			logger.Warn("watch: skip path", slog.String("path", p), slog.String("error", statErr.Error()))
			continue
		}
		if !ok {
			continue
		}
		if addErr := w.Add(dir); addErr != nil {
			logger.Warn("watch: add path failed", slog.String("path", dir), slog.String("error", addErr.Error()))
			continue
		}
		logger.Debug("watch: watching", slog.String("path", p))
	}

	changed := make(chan struct{}, 1)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var timer *time.Timer
		var fire <-chan time.Time
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if !t.match(filepath.Clean(ev.Name)) {
					continue
				}
				logger.Debug("watch: event", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				if timer == nil {
					timer = time.NewTimer(Debounce)
					fire = timer.C
				} else {
					timer.Reset(Debounce)
				}
			case <-fire:
				select {
				case changed <- struct{}{}:
				default:
				}
			case watchErr, ok := <-w.Errors:
				if !ok {
					return nil
				}
				logger.Error("watch: error", slog.String("error", watchErr.Error()))
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		run := func(reason string) {
			if runErr := fn(ctx); runErr != nil {
				logger.Warn("watch: run failed", slog.String("reason", reason), slog.String("error", runErr.Error()))
			}
		}

		logger.Info("watch: started", slog.Duration("interval", interval))
		run("start")
		for {
			select {
			case <-ctx.Done():
				logger.Info("watch: stopped")
				return nil
			case <-ticker.C:
				run("tick")
			case <-changed:
				run("change")
			}
		}
	})

	return g.Wait()
}

// targets records which events are of interest: everything inside a watched
// directory, or a single file inside its parent directory.
type targets struct {
	dirs    map[string]bool
	files   map[string]bool
	watched map[string]bool
}

func newTargets() *targets {
	return &targets{dirs: map[string]bool{}, files: map[string]bool{}, watched: map[string]bool{}}
}

// add registers p and returns the directory to hand to fsnotify. ok is false
// when that directory is already being watched.
func (t *targets) add(p string) (dir string, ok bool) {
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		t.dirs[p] = true
		dir = p
	} else {
		t.files[p] = true
		dir = filepath.Dir(p)
	}
	if t.watched[dir] {
		return dir, false
	}
	t.watched[dir] = true
	return dir, true
}

func (t *targets) match(name string) bool {
	return t.files[name] || t.dirs[filepath.Dir(name)]
}
