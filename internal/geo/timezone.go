package geo

import (
	"fmt"
	"sync"

	"github.com/ringsaturn/tzf"

	"github.com/starford/dayglow/internal/apperr"
)

// TimezoneFinder maps coordinates to IANA timezone ids using the timezone
// boundary polygons bundled with tzf. The polygon data is loaded lazily on
// the first lookup since most runs never need it.
type TimezoneFinder struct {
	once   sync.Once
	finder tzf.F
	err    error
}

// NewTimezoneFinder returns a lazily initialised finder.
func NewTimezoneFinder() *TimezoneFinder {
	return &TimezoneFinder{}
}

// Timezone returns the IANA timezone at (lat, lon), or apperr.ErrNoTimezone
// when the point is not covered by any polygon.
func (f *TimezoneFinder) Timezone(lat, lon float64) (string, error) {
	f.once.Do(func() {
		f.finder, f.err = tzf.NewDefaultFinder()
	})
	if f.err != nil {
		return "", fmt.Errorf("geo: load timezone polygons: %w", f.err)
	}
	name := f.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return "", fmt.Errorf("geo: timezone at %.4f,%.4f: %w", lat, lon, apperr.ErrNoTimezone)
	}
	return name, nil
}
