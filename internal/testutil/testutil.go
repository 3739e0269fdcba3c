// Package testutil provides shared test doubles for the location store and
// interactive prompts.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/starford/dayglow/internal/apperr"
	"github.com/starford/dayglow/internal/gazetteer"
	"github.com/starford/dayglow/internal/models"
	"github.com/starford/dayglow/internal/storage"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestStore creates a file-backed location store inside a temp directory.
func TestStore(t *testing.T) *storage.FS {
	t.Helper()
	s, err := storage.NewFS(filepath.Join(t.TempDir(), "location.json"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// TestGazetteer opens a seeded gazetteer that is closed on cleanup.
func TestGazetteer(t *testing.T) *gazetteer.DB {
	t.Helper()
	db, err := gazetteer.Open(filepath.Join(t.TempDir(), "cities.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Store is an in-memory storage.Provider that counts calls. Corrupt makes
// Load fail with apperr.ErrCorrupt until Clear is called.
type Store struct {
	mu      sync.Mutex
	loc     *models.Location
	Corrupt bool

	Loads, Saves, Clears int
}

// NewStore returns a Store, optionally pre-seeded.
func NewStore(seed *models.Location) *Store {
	return &Store{loc: seed}
}

// Load implements storage.Provider.
func (s *Store) Load() (models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Loads++
	if s.Corrupt {
		return models.Location{}, fmt.Errorf("testutil: %w", apperr.ErrCorrupt)
	}
	if s.loc == nil {
		return models.Location{}, apperr.ErrNotFound
	}
	return *s.loc, nil
}

// Save implements storage.Provider.
func (s *Store) Save(loc models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Saves++
	s.loc = &loc
	return nil
}

// Clear implements storage.Provider.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Clears++
	s.Corrupt = false
	s.loc = nil
	return nil
}

// Prompter replays scripted answers. Running out of answers behaves like
// end of input.
type Prompter struct {
	Answers   []string
	Questions []string
	Said      []string
}

// Ask implements resolver.Prompter.
func (p *Prompter) Ask(ctx context.Context, question string) (string, error) {
	p.Questions = append(p.Questions, question)
	if ctx.Err() != nil || len(p.Answers) == 0 {
		return "", apperr.ErrCancelled
	}
	a := p.Answers[0]
	p.Answers = p.Answers[1:]
	return a, nil
}

// Say implements resolver.Prompter.
func (p *Prompter) Say(format string, args ...any) {
	p.Said = append(p.Said, fmt.Sprintf(format, args...))
}
