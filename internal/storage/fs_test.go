package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/dayglow/internal/apperr"
	"github.com/starford/dayglow/internal/models"
)

func tempStore(t *testing.T) *FS {
	t.Helper()
	s, err := NewFS(filepath.Join(t.TempDir(), "nested", "location.json"))
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := tempStore(t)
	want := models.Location{Name: "Oslo", Region: "Norway", Timezone: "Europe/Oslo", Latitude: 59.91, Longitude: 10.75}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestSaveFormat(t *testing.T) {
	s := tempStore(t)
	if err := s.Save(models.DefaultLocation()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, key := range []string{`"name"`, `"region"`, `"timezone"`, `"latitude"`, `"longitude"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("missing key %s in %s", key, data)
		}
	}
	if !strings.Contains(string(data), "\n    \"name\"") {
		t.Errorf("expected 4-space indentation, got %s", data)
	}
}

func TestLoadMissing(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Load(); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Load err = %v, want ErrNotFound", err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	cases := map[string]string{
		"invalid json": `{"name": "Oslo",`,
		"missing key":  `{"name": "Oslo", "region": "Norway", "timezone": "Europe/Oslo", "latitude": 59.9}`,
		"bad timezone": `{"name": "Oslo", "region": "", "timezone": "Mars/Olympus", "latitude": 1, "longitude": 2}`,
		"bad latitude": `{"name": "Oslo", "region": "", "timezone": "UTC", "latitude": 123, "longitude": 2}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			s := tempStore(t)
			if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(s.Path(), []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := s.Load(); !errors.Is(err, apperr.ErrCorrupt) {
				t.Errorf("Load err = %v, want ErrCorrupt", err)
			}
		})
	}
}

func TestClear(t *testing.T) {
	s := tempStore(t)
	_ = s.Save(models.DefaultLocation())
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Errorf("cache file still present: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("Clear on empty cache: %v", err)
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempStore(t)
	_ = s.Save(models.DefaultLocation())
	updated := models.Location{Name: "Quito", Region: "Ecuador", Timezone: "America/Guayaquil", Latitude: -0.22, Longitude: -78.51}
	if err := s.Save(updated); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := s.Load()
	if got != updated {
		t.Errorf("expected updated location, got %+v", got)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(s.Path()), ".dayglow-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_Directory(t *testing.T) {
	if _, err := NewFS(t.TempDir()); err == nil {
		t.Error("expected error when cache path is a directory")
	}
}
