// Package phase maps an instant to one of sixteen time-of-day buckets.
//
// The day is split at dawn, sunrise, sunset and dusk. Twilight windows are
// halved, the night is halved at its true midpoint and daytime is divided
// into a morning golden hour, eight evenly spaced midday steps and an
// evening golden hour, each golden hour being an eighth of the day.
package phase

import (
	"fmt"
	"time"

	"github.com/starford/dayglow/internal/models"
	"github.com/starford/dayglow/internal/solar"
)

// Buckets.
const (
	DawnEarly     = 1
	DawnLate      = 2
	MorningGolden = 3
	MiddayFirst   = 4
	ShortDay      = 7
	MiddayLast    = 11
	EveningGolden = 12
	DuskEarly     = 13
	DuskLate      = 14
	NightEarly    = 15
	NightLate     = 16

	Count = 16
)

// middaySteps is the number of buckets spread across midday.
const middaySteps = MiddayLast - MiddayFirst + 1

// EventSource computes solar events for a calendar date.
type EventSource interface {
	Events(loc models.Location, day time.Time) (solar.Events, error)
}

// Select returns the bucket for now at loc.
func Select(src EventSource, loc models.Location, now time.Time) (int, error) {
	now = now.UTC()
	today, err := src.Events(loc, now)
	if err != nil {
		return 0, fmt.Errorf("phase: today's events: %w", err)
	}
	if b, ok := Daylight(today, now); ok {
		return b, nil
	}

	if now.Before(today.Dawn) {
		yesterday, err := src.Events(loc, dayShift(loc, now, -1))
		if err != nil {
			return 0, fmt.Errorf("phase: yesterday's events: %w", err)
		}
		return Night(yesterday.Dusk, today.Dawn, now), nil
	}
	tomorrow, err := src.Events(loc, dayShift(loc, now, 1))
	if err != nil {
		return 0, fmt.Errorf("phase: tomorrow's events: %w", err)
	}
	return Night(today.Dusk, tomorrow.Dawn, now), nil
}

// Daylight classifies now against a single day's events. It reports false
// when now falls outside [dawn, dusk), i.e. during the night.
func Daylight(ev solar.Events, now time.Time) (int, bool) {
	switch {
	case !now.Before(ev.Sunrise) && now.Before(ev.Sunset):
		return daytime(ev.Sunrise, ev.Sunset, now), true
	case !now.Before(ev.Sunset) && now.Before(ev.Dusk):
		if now.Before(midpoint(ev.Sunset, ev.Dusk)) {
			return DuskEarly, true
		}
		return DuskLate, true
	case !now.Before(ev.Dawn) && now.Before(ev.Sunrise):
		if now.Before(midpoint(ev.Dawn, ev.Sunrise)) {
			return DawnEarly, true
		}
		return DawnLate, true
	}
	return 0, false
}

// Night splits the night between dusk and the following dawn at its midpoint.
func Night(dusk, dawn, now time.Time) int {
	if now.Before(midpoint(dusk, dawn)) {
		return NightEarly
	}
	return NightLate
}

// Report is the bucket chosen for an instant together with the solar events
// of that local date.
type Report struct {
	Location models.Location `json:"location"`
	At       time.Time       `json:"at"`
	Bucket   int             `json:"bucket"`
	Events   solar.Events    `json:"events"`
}

// Describe selects the bucket for now and returns it with today's events.
func Describe(src EventSource, loc models.Location, now time.Time) (Report, error) {
	b, err := Select(src, loc, now)
	if err != nil {
		return Report{}, err
	}
	ev, err := src.Events(loc, now)
	if err != nil {
		return Report{}, fmt.Errorf("phase: today's events: %w", err)
	}
	return Report{Location: loc, At: now, Bucket: b, Events: ev}, nil
}

func daytime(sunrise, sunset, now time.Time) int {
	day := sunset.Sub(sunrise)
	golden := day / 8

	if now.Before(sunrise.Add(golden)) {
		return MorningGolden
	}
	if !now.Before(sunset.Add(-golden)) {
		return EveningGolden
	}

	middayStart := sunrise.Add(golden)
	midday := day - 2*golden
	// Unreachable with half-open golden hours: a zero-length midday leaves
	// every instant to them. Kept so the division below is always safe.
	if midday <= 0 {
		return ShortDay
	}
	progress := float64(now.Sub(middayStart)) / float64(midday)
	return min(MiddayFirst+int(progress*middaySteps), MiddayLast)
}

func midpoint(a, b time.Time) time.Time {
	return a.Add(b.Sub(a) / 2)
}

// dayShift moves now by n calendar days in loc's timezone. The instant keeps
// its local wall-clock time so that DST transitions do not skip a date.
func dayShift(loc models.Location, now time.Time, n int) time.Time {
	tz, err := loc.TimeLocation()
	if err != nil {
		return now.AddDate(0, 0, n)
	}
	return now.In(tz).AddDate(0, 0, n)
}
