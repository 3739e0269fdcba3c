package resolver

import (
	"log/slog"

	"github.com/starford/dayglow/internal/models"
	"github.com/starford/dayglow/internal/storage"
)

// Deps are the collaborators of the standard resolution chain.
type Deps struct {
	Store     storage.Provider
	Prompt    Prompter
	Locator   IPLocator
	Gazetteer Gazetteer
	Geocoder  Geocoder
	Timezones TimezoneFinder
	Fallback  models.Location
	Logger    *slog.Logger
}

// NewStandard builds the cached → IP → manual chain. Only locations produced
// by the interactive tiers are persisted.
func NewStandard(d Deps) *Resolver {
	return New(d.Store, d.Fallback, d.Prompt, d.Logger,
		Step{Name: "cached", Strategy: Cached{Store: d.Store, Logger: d.Logger}},
		Step{Name: "ip", Strategy: IPLookup{Locator: d.Locator, Prompt: d.Prompt, Logger: d.Logger}, Persist: true},
		Step{Name: "manual", Strategy: Manual{
			Gazetteer: d.Gazetteer,
			Geocoder:  d.Geocoder,
			Timezones: d.Timezones,
			Prompt:    d.Prompt,
			Logger:    d.Logger,
		}, Persist: true},
	)
}
