// Package wallpaper hands a pre-rendered image to the desktop shell.
package wallpaper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// ImageStore locates the pre-rendered images, named <prefix><bucket><ext>.
type ImageStore struct {
	Dir    string
	Prefix string
	Ext    string
}

// Path returns the image path for bucket.
func (s ImageStore) Path(bucket int) string {
	return filepath.Join(s.Dir, s.Prefix+strconv.Itoa(bucket)+s.Ext)
}

// CheckDir reports an error when the image directory does not exist.
func (s ImageStore) CheckDir() error {
	info, err := os.Stat(s.Dir)
	if err != nil {
		return fmt.Errorf("wallpaper: image directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("wallpaper: image directory is not a directory: %s", s.Dir)
	}
	return nil
}

// Setter changes the desktop wallpaper one particular way.
type Setter interface {
	Name() string
	Set(ctx context.Context, path string) error
}

// Applier tries its setters in order until one succeeds.
type Applier struct {
	images  ImageStore
	setters []Setter
	logger  *slog.Logger
}

// NewApplier creates an applier for images using the given setter tiers.
func NewApplier(images ImageStore, logger *slog.Logger, setters ...Setter) *Applier {
	return &Applier{images: images, setters: setters, logger: logger}
}

// Images returns the image store the applier reads from.
func (a *Applier) Images() ImageStore {
	return a.images
}

// Apply sets the image for bucket as wallpaper. It reports whether a setter
// succeeded; a missing image or failing setters are logged, never returned.
func (a *Applier) Apply(ctx context.Context, bucket int) bool {
	path := a.images.Path(bucket)
	if _, err := os.Stat(path); err != nil {
		a.logger.Warn("wallpaper: image not found", slog.String("path", path))
		return false
	}

	for _, s := range a.setters {
		if err := s.Set(ctx, path); err != nil {
			a.logger.Debug("wallpaper: setter failed",
				slog.String("setter", s.Name()),
				slog.String("error", err.Error()))
			continue
		}
		a.logger.Info("wallpaper: applied",
			slog.String("setter", s.Name()),
			slog.String("image", filepath.Base(path)),
			slog.Int("bucket", bucket))
		return true
	}

	a.logger.Warn("wallpaper: no setter succeeded", slog.String("path", path))
	return false
}
