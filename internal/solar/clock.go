// Package solar computes the daily dawn, sunrise, sunset and dusk instants
// for a location.
package solar

import (
	"fmt"
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/starford/dayglow/internal/models"
)

// CivilTwilight is the solar elevation, in degrees, that bounds dawn and dusk.
const CivilTwilight = -6.0

// Events holds the solar events of one calendar date, all in UTC.
//
// Dates where the sun never rises, never sets or never reaches civil
// twilight are normalised so that Dawn <= Sunrise <= Sunset <= Dusk always
// holds:
//   - polar day: sunrise and dawn at the start of the local day, sunset and
//     dusk at the start of the next one.
//   - polar night with twilight: sunrise and sunset collapse onto the midpoint
//     of dawn and dusk.
//   - polar night without twilight: all four collapse onto solar noon.
//   - white night: dawn equals sunrise and dusk equals sunset.
type Events struct {
	Dawn    time.Time `json:"dawn"`
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
	Dusk    time.Time `json:"dusk"`

	PolarDay   bool `json:"polar_day,omitempty"`
	PolarNight bool `json:"polar_night,omitempty"`
}

// Clock computes solar events. The zero value is ready to use.
type Clock struct{}

// Events returns the solar events for day's calendar date in loc's timezone.
func (Clock) Events(loc models.Location, day time.Time) (Events, error) {
	tz, err := loc.TimeLocation()
	if err != nil {
		return Events{}, fmt.Errorf("solar: load timezone %q: %w", loc.Timezone, err)
	}
	y, m, d := day.In(tz).Date()
	sy, sm, sd := solarDate(loc.Longitude, time.Date(y, m, d, 12, 0, 0, 0, tz))

	rise, set := sunrise.SunriseSunset(loc.Latitude, loc.Longitude, sy, sm, sd)
	dawn, dusk := sunrise.TimeOfElevation(loc.Latitude, loc.Longitude, CivilTwilight, sy, sm, sd)

	ev := Events{
		Dawn:    dawn.UTC(),
		Sunrise: rise.UTC(),
		Sunset:  set.UTC(),
		Dusk:    dusk.UTC(),
	}

	switch {
	case rise.IsZero() || set.IsZero():
		if noonElevation(loc.Latitude, sy, sm, sd) > 0 {
			start := time.Date(y, m, d, 0, 0, 0, 0, tz)
			ev.PolarDay = true
			ev.Dawn = start.UTC()
			ev.Sunrise = ev.Dawn
			ev.Sunset = start.AddDate(0, 0, 1).UTC()
			ev.Dusk = ev.Sunset
			return ev, nil
		}
		ev.PolarNight = true
		if dawn.IsZero() || dusk.IsZero() {
			noon := solarNoon(loc.Longitude, sy, sm, sd)
			ev.Dawn, ev.Sunrise, ev.Sunset, ev.Dusk = noon, noon, noon, noon
			return ev, nil
		}
		mid := ev.Dawn.Add(ev.Dusk.Sub(ev.Dawn) / 2)
		ev.Sunrise, ev.Sunset = mid, mid
	case dawn.IsZero() || dusk.IsZero():
		ev.Dawn = ev.Sunrise
		ev.Dusk = ev.Sunset
	}
	return ev, nil
}

// solarDate returns the date go-sunrise must be given so that its events
// surround localNoon. go-sunrise anchors a date to solar noon at the given
// longitude, which falls on a different local date when the zone offset is
// far from longitude/15 (zones pushed across the date line, such as
// Pacific/Apia or Pacific/Kiritimati).
func solarDate(lon float64, localNoon time.Time) (int, time.Month, int) {
	return localNoon.UTC().Add(time.Duration(lon / 15 * float64(time.Hour))).Date()
}

// solarNoon approximates the instant of local solar noon from longitude alone.
func solarNoon(lon float64, y int, m time.Month, d int) time.Time {
	offset := time.Duration(lon / 15 * float64(time.Hour))
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Add(-offset)
}

// noonElevation approximates the sun's elevation at solar noon, in degrees.
// It is only used to tell polar day from polar night.
func noonElevation(lat float64, y int, m time.Month, d int) float64 {
	doy := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).YearDay()
	decl := -23.44 * math.Cos(2*math.Pi/365*float64(doy+10))
	return 90 - math.Abs(lat-decl)
}
