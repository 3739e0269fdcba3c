// Package models defines the domain types for dayglow.
package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Location is a named place on earth together with its IANA timezone.
type Location struct {
	Name      string  `json:"name" yaml:"name"`
	Region    string  `json:"region" yaml:"region"`
	Timezone  string  `json:"timezone" yaml:"timezone"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// DefaultLocation is used when every resolution tier has been exhausted.
func DefaultLocation() Location {
	return Location{
		Name:      "Nizhny Novgorod",
		Region:    "Russia",
		Timezone:  "Europe/Moscow",
		Latitude:  56.32,
		Longitude: 44.00,
	}
}

// Validate checks that the location can be used for solar computation.
func (l *Location) Validate() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Name, validation.Required),
		validation.Field(&l.Timezone, validation.Required, validation.By(ianaZone)),
		validation.Field(&l.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&l.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

// TimeLocation loads the location's timezone.
func (l Location) TimeLocation() (*time.Location, error) {
	return time.LoadLocation(l.Timezone)
}

// String renders "Name, Region" or just the name when region is empty.
func (l Location) String() string {
	if l.Region == "" {
		return l.Name
	}
	return l.Name + ", " + l.Region
}

func ianaZone(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.LoadLocation(s); err != nil {
		return errors.New("must be a valid IANA timezone")
	}
	return nil
}

// ParseCoordinates parses a "lat,lon" pair as returned by IP geolocation services.
func ParseCoordinates(s string) (lat, lon float64, err error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("parse coordinates %q: missing comma", s)
	}
	if lat, err = strconv.ParseFloat(strings.TrimSpace(latStr), 64); err != nil {
		return 0, 0, fmt.Errorf("parse latitude %q: %w", latStr, err)
	}
	if lon, err = strconv.ParseFloat(strings.TrimSpace(lonStr), 64); err != nil {
		return 0, 0, fmt.Errorf("parse longitude %q: %w", lonStr, err)
	}
	return lat, lon, nil
}
