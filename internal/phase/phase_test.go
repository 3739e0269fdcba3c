package phase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/starford/dayglow/internal/models"
	"github.com/starford/dayglow/internal/solar"
)

var utcLoc = models.Location{Name: "Greenwich", Timezone: "UTC", Latitude: 51.48, Longitude: 0}

// fixedSource returns the same wall-clock schedule for every date.
type fixedSource struct {
	dawn, sunrise, sunset, dusk time.Duration // offsets from local midnight
	calls                       int
}

func (f *fixedSource) Events(_ models.Location, day time.Time) (solar.Events, error) {
	f.calls++
	y, m, d := day.UTC().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return solar.Events{
		Dawn:    midnight.Add(f.dawn),
		Sunrise: midnight.Add(f.sunrise),
		Sunset:  midnight.Add(f.sunset),
		Dusk:    midnight.Add(f.dusk),
	}, nil
}

// standardDay: dawn 05:00, sunrise 06:00, sunset 22:00, dusk 23:00.
// Day length 16h, golden hour 2h, midday 08:00-20:00 in 1.5h steps.
func standardDay() *fixedSource {
	return &fixedSource{dawn: 5 * time.Hour, sunrise: 6 * time.Hour, sunset: 22 * time.Hour, dusk: 23 * time.Hour}
}

func at(h, m int) time.Time {
	return time.Date(2024, time.May, 10, h, m, 0, 0, time.UTC)
}

func selectAt(t *testing.T, src EventSource, now time.Time) int {
	t.Helper()
	b, err := Select(src, utcLoc, now)
	require.NoError(t, err)
	return b
}

func TestSelect_Table(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want int
	}{
		{"dawn start", at(5, 0), DawnEarly},
		{"dawn before midpoint", at(5, 29), DawnEarly},
		{"dawn midpoint", at(5, 30), DawnLate},
		{"sunrise", at(6, 0), MorningGolden},
		{"golden end exclusive", at(7, 59), MorningGolden},
		{"midday start", at(8, 0), 4},
		{"second step", at(9, 30), 5},
		{"solar noon", at(14, 0), 8},
		{"last step", at(18, 30), MiddayLast},
		{"evening golden", at(20, 0), EveningGolden},
		{"just before sunset", at(21, 59), EveningGolden},
		{"sunset", at(22, 0), DuskEarly},
		{"dusk midpoint", at(22, 30), DuskLate},
		{"dusk", at(23, 0), NightEarly},
		{"before midnight", at(23, 59), NightEarly},
		{"after midnight", at(0, 30), NightEarly},
		{"night midpoint", at(2, 0), NightLate},
		{"before dawn", at(4, 59), NightLate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, selectAt(t, standardDay(), tc.now))
		})
	}
}

func TestSelect_DaytimeProperties(t *testing.T) {
	src := standardDay()
	sunrise, sunset := at(6, 0), at(22, 0)
	golden := sunset.Sub(sunrise) / 8

	prev := 0
	for now := sunrise; now.Before(sunset); now = now.Add(time.Minute) {
		b := selectAt(t, src, now)
		require.GreaterOrEqual(t, b, MorningGolden)
		require.LessOrEqual(t, b, EveningGolden)
		require.Equal(t, now.Before(sunrise.Add(golden)), b == MorningGolden, "now=%s", now)
		require.Equal(t, !now.Before(sunset.Add(-golden)), b == EveningGolden, "now=%s", now)
		require.GreaterOrEqual(t, b, prev, "bucket decreased at %s", now)
		prev = b
	}
}

func TestSelect_TwilightSplits(t *testing.T) {
	src := standardDay()
	for now := at(5, 0); now.Before(at(6, 0)); now = now.Add(time.Minute) {
		want := DawnEarly
		if !now.Before(at(5, 30)) {
			want = DawnLate
		}
		require.Equal(t, want, selectAt(t, src, now))
	}
	for now := at(22, 0); now.Before(at(23, 0)); now = now.Add(time.Minute) {
		want := DuskEarly
		if !now.Before(at(22, 30)) {
			want = DuskLate
		}
		require.Equal(t, want, selectAt(t, src, now))
	}
}

// shiftingSource makes every date's events an hour later than the previous
// date's, so the night midpoint depends on which two dates bound the night.
type shiftingSource struct{ base time.Time }

func (s shiftingSource) Events(_ models.Location, day time.Time) (solar.Events, error) {
	y, m, d := day.UTC().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	shift := time.Duration(midnight.Sub(s.base)/(24*time.Hour)) * time.Hour
	return solar.Events{
		Dawn:    midnight.Add(4*time.Hour + shift),
		Sunrise: midnight.Add(5*time.Hour + shift),
		Sunset:  midnight.Add(19*time.Hour + shift),
		Dusk:    midnight.Add(20*time.Hour + shift),
	}, nil
}

func TestSelect_NightWraparound(t *testing.T) {
	src := shiftingSource{base: at(0, 0)}

	// Night of the 10th into the 11th: dusk 20:00 on the 10th, dawn 05:00
	// on the 11th, midpoint 00:30 on the 11th.
	mid := at(0, 30).AddDate(0, 0, 1)
	require.Equal(t, NightEarly, selectAt(t, src, at(20, 0)))
	require.Equal(t, NightEarly, selectAt(t, src, mid.Add(-time.Second)))
	require.Equal(t, NightLate, selectAt(t, src, mid))
	require.Equal(t, NightLate, selectAt(t, src, at(4, 59).AddDate(0, 0, 1)))

	// Seen from before midnight the same midpoint applies.
	require.Equal(t, NightEarly, selectAt(t, src, at(23, 59)))
	// At the next day's dawn the night is over.
	require.Equal(t, DawnEarly, selectAt(t, src, at(5, 0).AddDate(0, 0, 1)))
}

func TestSelect_OnlyFetchesAdjacentDayAtNight(t *testing.T) {
	src := standardDay()
	selectAt(t, src, at(12, 0))
	require.Equal(t, 1, src.calls)

	src = standardDay()
	selectAt(t, src, at(1, 0))
	require.Equal(t, 2, src.calls)
}

func TestDaytime_ShortDayGuard(t *testing.T) {
	// A zero-length day leaves no midday window; the golden-hour checks
	// already claim every instant, so the guard is never the first match.
	sunrise := at(12, 0)
	require.Equal(t, EveningGolden, daytime(sunrise, sunrise, sunrise))
}

func TestDaytime_ClampedToLastStep(t *testing.T) {
	sunrise, sunset := at(6, 0), at(22, 0)
	require.Equal(t, MiddayLast, daytime(sunrise, sunset, at(19, 59)))
}

func TestSelect_RealClockSolarNoon(t *testing.T) {
	loc := models.DefaultLocation()
	clock := solar.Clock{}
	ev, err := clock.Events(loc, time.Date(2024, time.April, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	noon := ev.Sunrise.Add(ev.Sunset.Sub(ev.Sunrise) / 2)
	b, err := Select(clock, loc, noon)
	require.NoError(t, err)
	require.Contains(t, []int{7, 8}, b)
}

func TestSelect_RealClockCoversAllBuckets(t *testing.T) {
	loc := models.DefaultLocation()
	seen := make(map[int]bool)
	start := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)
	for now := start; now.Before(start.Add(24 * time.Hour)); now = now.Add(5 * time.Minute) {
		b, err := Select(solar.Clock{}, loc, now)
		require.NoError(t, err)
		require.GreaterOrEqual(t, b, 1)
		require.LessOrEqual(t, b, Count)
		seen[b] = true
	}
	require.Len(t, seen, Count)
}

func TestSelect_PolarDayStaysInDaytime(t *testing.T) {
	loc := models.Location{Name: "Tromsø", Timezone: "Europe/Oslo", Latitude: 69.65, Longitude: 18.96}
	start := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)
	for now := start; now.Before(start.Add(24 * time.Hour)); now = now.Add(30 * time.Minute) {
		b, err := Select(solar.Clock{}, loc, now)
		require.NoError(t, err)
		require.GreaterOrEqual(t, b, MorningGolden)
		require.LessOrEqual(t, b, EveningGolden)
	}
}

func TestSelect_BadTimezone(t *testing.T) {
	_, err := Select(solar.Clock{}, models.Location{Name: "x", Timezone: "Nope/Nope"}, time.Now())
	require.Error(t, err)
}

func TestDescribe(t *testing.T) {
	r, err := Describe(standardDay(), utcLoc, at(14, 0))
	require.NoError(t, err)
	require.Equal(t, 8, r.Bucket)
	require.Equal(t, utcLoc, r.Location)
	require.Equal(t, at(6, 0), r.Events.Sunrise)
	require.Equal(t, at(22, 0), r.Events.Sunset)
}

func TestSelect_MiddayAcrossDateLine(t *testing.T) {
	for _, loc := range []models.Location{
		{Name: "Apia", Timezone: "Pacific/Apia", Latitude: -13.83, Longitude: -171.76},
		{Name: "Kiritimati", Timezone: "Pacific/Kiritimati", Latitude: 1.87, Longitude: -157.43},
	} {
		tz, err := loc.TimeLocation()
		require.NoError(t, err)
		b, err := Select(solar.Clock{}, loc, time.Date(2024, time.April, 15, 12, 30, 0, 0, tz))
		require.NoError(t, err)
		require.GreaterOrEqual(t, b, MiddayFirst, loc.Name)
		require.LessOrEqual(t, b, MiddayLast, loc.Name)
	}
}
