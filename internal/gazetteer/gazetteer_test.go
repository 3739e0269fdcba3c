package gazetteer

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/dayglow/internal/apperr"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cities.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenSeeds(t *testing.T) {
	db := testDB(t)
	n, err := db.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n < 100 {
		t.Errorf("seeded %d cities, want at least 100", n)
	}
}

func TestOpenDoesNotReseed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := db.Import(strings.NewReader("Gotham,Nowhere,UTC,40.7,-74.0,1\n")); err != nil {
		t.Fatalf("Import: %v", err)
	}
	before, _ := db.Count()
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	after, _ := db.Count()
	if before != after {
		t.Errorf("count changed on reopen: %d -> %d", before, after)
	}
}

func TestLookup(t *testing.T) {
	db := testDB(t)
	cases := []struct {
		in       string
		wantName string
		wantTZ   string
	}{
		{"Moscow", "Moscow", "Europe/Moscow"},
		{"  nizhny   NOVGOROD ", "Nizhny Novgorod", "Europe/Moscow"},
		{"Santiago, Chile", "Santiago", "America/Santiago"},
		{"Yekat", "Yekaterinburg", "Asia/Yekaterinburg"},
	}
	for _, tc := range cases {
		loc, err := db.Lookup(tc.in)
		if err != nil {
			t.Errorf("Lookup(%q): %v", tc.in, err)
			continue
		}
		if loc.Name != tc.wantName || loc.Timezone != tc.wantTZ {
			t.Errorf("Lookup(%q) = %+v", tc.in, loc)
		}
	}
}

func TestLookupPrefersPopulation(t *testing.T) {
	db := testDB(t)
	_, err := db.Import(strings.NewReader("Moscow,USA,America/Boise,46.73,-117.0,25000\n"))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	loc, err := db.Lookup("moscow")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if loc.Region != "Russia" {
		t.Errorf("expected the larger Moscow, got %+v", loc)
	}
	loc, err = db.Lookup("mosc")
	if err != nil {
		t.Fatalf("Lookup by prefix: %v", err)
	}
	if loc.Region != "Russia" {
		t.Errorf("prefix shared by same-named cities should pick the larger, got %+v", loc)
	}
	loc, err = db.Lookup("Moscow, USA")
	if err != nil {
		t.Fatalf("Lookup with region: %v", err)
	}
	if loc.Timezone != "America/Boise" {
		t.Errorf("region lookup = %+v", loc)
	}
}

func TestLookupMiss(t *testing.T) {
	db := testDB(t)
	// "Paris, Texas" names a region the database does not hold for Paris, and
	// "San" starts both San Francisco and Santiago.
	for _, in := range []string{"Zzzxzzq", "", "mo", "100%", "Paris, Texas", "San"} {
		if _, err := db.Lookup(in); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Lookup(%q) err = %v, want ErrNotFound", in, err)
		}
	}
}

func TestImport(t *testing.T) {
	db := testDB(t)
	csv := strings.Join([]string{
		"name,region,timezone,latitude,longitude,population",
		"Ushuaia,Argentina,America/Argentina/Ushuaia,-54.8019,-68.3030,57000",
		"Nuuk,Greenland,America/Nuuk,64.1814,-51.6941",
		"Broken,Nowhere,Not/AZone,1,2,3",
		"Polar,Nowhere,UTC,95,0,1",
		"Short,row",
	}, "\n")
	stats, err := db.Import(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Skipped < 3 {
		t.Errorf("skipped = %d, want at least 3", stats.Skipped)
	}
	loc, err := db.Lookup("Ushuaia")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if loc.Latitude != -54.8019 {
		t.Errorf("latitude = %v", loc.Latitude)
	}
}

func TestImportUpdatesExisting(t *testing.T) {
	db := testDB(t)
	if _, err := db.Import(strings.NewReader("Oslo,Norway,Europe/Oslo,1.5,2.5,1\n")); err != nil {
		t.Fatalf("Import: %v", err)
	}
	loc, _ := db.Lookup("Oslo")
	if loc.Latitude != 1.5 {
		t.Errorf("expected updated row, got %+v", loc)
	}
}
