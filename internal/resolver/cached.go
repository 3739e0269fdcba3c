package resolver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/starford/dayglow/internal/apperr"
	"github.com/starford/dayglow/internal/models"
	"github.com/starford/dayglow/internal/storage"
)

// Cached reads the previously resolved location. A corrupt cache is
// deleted so that resolution starts over.
type Cached struct {
	Store  storage.Provider
	Logger *slog.Logger
}

// Resolve implements Strategy.
func (c Cached) Resolve(_ context.Context) (models.Location, bool) {
	loc, err := c.Store.Load()
	switch {
	case err == nil:
		return loc, true
	case errors.Is(err, apperr.ErrNotFound):
		return models.Location{}, false
	case errors.Is(err, apperr.ErrCorrupt):
		c.Logger.Warn("resolver: discarding corrupt location cache", slog.String("error", err.Error()))
		if clearErr := c.Store.Clear(); clearErr != nil {
			c.Logger.Warn("resolver: clear location cache failed", slog.String("error", clearErr.Error()))
		}
	default:
		c.Logger.Warn("resolver: read location cache failed", slog.String("error", err.Error()))
	}
	return models.Location{}, false
}
