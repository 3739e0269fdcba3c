package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/dayglow/internal/apperr"
	"github.com/starford/dayglow/internal/models"
)

// FS implements Provider backed by a JSON file on the local file system.
type FS struct {
	path string // absolute path to the cache file
}

// NewFS creates a new FS provider for the given file. Parent directories are
// created on the first Save.
func NewFS(path string) (*FS, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve path: %w", err)
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return nil, fmt.Errorf("storage: cache path is a directory: %s", abs)
	}
	return &FS{path: abs}, nil
}

// Path returns the absolute path of the cache file.
func (f *FS) Path() string {
	return f.path
}

// record mirrors models.Location with pointer fields so that absent keys can
// be told apart from zero values.
type record struct {
	Name      *string  `json:"name"`
	Region    *string  `json:"region"`
	Timezone  *string  `json:"timezone"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Load reads and validates the cached location.
func (f *FS) Load() (models.Location, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.Location{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Location{}, fmt.Errorf("storage: read %s: %w", f.path, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.Location{}, fmt.Errorf("storage: decode %s: %w: %v", f.path, apperr.ErrCorrupt, err)
	}
	if rec.Name == nil || rec.Region == nil || rec.Timezone == nil || rec.Latitude == nil || rec.Longitude == nil {
		return models.Location{}, fmt.Errorf("storage: %s missing required key: %w", f.path, apperr.ErrCorrupt)
	}

	loc := models.Location{
		Name:      *rec.Name,
		Region:    *rec.Region,
		Timezone:  *rec.Timezone,
		Latitude:  *rec.Latitude,
		Longitude: *rec.Longitude,
	}
	if err := loc.Validate(); err != nil {
		return models.Location{}, fmt.Errorf("storage: %s invalid: %w: %v", f.path, apperr.ErrCorrupt, err)
	}
	return loc, nil
}

// Save atomically writes the location: tmp file → fsync → rename.
func (f *FS) Save(loc models.Location) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(loc); err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".dayglow-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("storage: chmod: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Clear removes the cache file.
func (f *FS) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", f.path, err)
	}
	return nil
}
