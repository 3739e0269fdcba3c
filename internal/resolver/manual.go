package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/dayglow/internal/apperr"
	"github.com/starford/dayglow/internal/geo"
	"github.com/starford/dayglow/internal/models"
)

// Gazetteer looks up cities offline. A miss is reported as apperr.ErrNotFound.
type Gazetteer interface {
	Lookup(name string) (models.Location, error)
}

// Geocoder searches an online place database. A miss is reported as
// apperr.ErrNotFound.
type Geocoder interface {
	Search(ctx context.Context, query string) (geo.Place, error)
}

// TimezoneFinder maps coordinates to an IANA timezone id.
type TimezoneFinder interface {
	Timezone(lat, lon float64) (string, error)
}

// Manual asks the user for a city name until it can be resolved or the user
// gives up with an empty answer or an interrupt.
type Manual struct {
	Gazetteer Gazetteer
	Geocoder  Geocoder
	Timezones TimezoneFinder
	Prompt    Prompter
	Logger    *slog.Logger
}

// Resolve implements Strategy.
func (m Manual) Resolve(ctx context.Context) (models.Location, bool) {
	m.Prompt.Say("\n--- Attempt 2: manual entry ---")
	for {
		name, err := m.Prompt.Ask(ctx, "Enter your city name in English (leave empty to cancel): ")
		if err != nil || name == "" {
			return models.Location{}, false
		}

		loc, err := m.Gazetteer.Lookup(name)
		if err == nil {
			m.Prompt.Say("City found in the local database: %s", loc)
			return loc, true
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			m.Logger.Warn("resolver: gazetteer lookup failed", slog.String("error", err.Error()))
		}

		loc, err = m.online(ctx, name)
		if err == nil {
			m.Prompt.Say("City found online: %s (TZ: %s)", loc.Name, loc.Timezone)
			return loc, true
		}
		m.Logger.Warn("resolver: online lookup failed", slog.String("city", name), slog.String("error", err.Error()))
		m.Prompt.Say("Could not find '%s' in the local or the online database. Check the spelling.", name)
	}
}

func (m Manual) online(ctx context.Context, name string) (models.Location, error) {
	m.Prompt.Say("Searching for '%s' in the OpenStreetMap online database...", name)
	place, err := m.Geocoder.Search(ctx, name)
	if err != nil {
		return models.Location{}, err
	}
	tz, err := m.Timezones.Timezone(place.Latitude, place.Longitude)
	if err != nil {
		m.Prompt.Say("Could not determine the timezone for the found coordinates.")
		return models.Location{}, err
	}
	loc := models.Location{
		Name:      place.Name,
		Timezone:  tz,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
	}
	if err := loc.Validate(); err != nil {
		return models.Location{}, fmt.Errorf("resolver: geocoded location invalid: %w", err)
	}
	return loc, nil
}
