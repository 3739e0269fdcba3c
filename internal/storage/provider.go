// Package storage persists the resolved location between runs.
package storage

import "github.com/starford/dayglow/internal/models"

// Provider is the interface for the location cache.
type Provider interface {
	// Load returns the cached location. It fails with apperr.ErrNotFound when
	// nothing is cached and apperr.ErrCorrupt when the cache cannot be parsed.
	Load() (models.Location, error)
	// Save atomically replaces the cached location.
	Save(loc models.Location) error
	// Clear removes the cached location. Clearing an empty cache is not an error.
	Clear() error
}
