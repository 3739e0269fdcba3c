package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeFile(t, "count: 3\n")
	s := sample{Name: "default", Count: 1}
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "default" || s.Count != 3 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	s := sample{Name: "default"}
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "default" {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("DAYGLOW_TEST_NAME", "from-env")
	path := writeFile(t, "name: ${DAYGLOW_TEST_NAME}\n")
	var s sample
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "from-env" {
		t.Errorf("name = %q", s.Name)
	}
}

func TestLoad_Errors(t *testing.T) {
	var s sample
	if err := Load(writeFile(t, "count: [1, 2\n"), &s); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
	if err := Load(writeFile(t, "count: -1\n"), &s); err == nil || !strings.Contains(err.Error(), "validation") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cases := map[string]string{
		"~":                   home,
		"~/Pictures/Mojave":   filepath.Join(home, "Pictures/Mojave"),
		"/etc/dayglow.yaml":   "/etc/dayglow.yaml",
		"relative/~/path":     "relative/~/path",
		"~other/not-expanded": "~other/not-expanded",
	}
	for in, want := range cases {
		if got := ExpandHome(in); got != want {
			t.Errorf("ExpandHome(%q) = %q, want %q", in, got, want)
		}
	}
}
