package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if s.LogLevel != "warn" || s.FFmpegLogLevel != "error" || s.Output != "text" {
		t.Errorf("unexpected defaults %+v", s)
	}
	if len(s.Backends) != 0 || len(s.LibraryPaths) != 0 {
		t.Errorf("lists should default to empty: %+v", s)
	}
}

func TestMissingFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Errorf("missing config file: %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avview.yaml")
	yaml := `loglevel: debug
output: yaml
backends:
  - v4l2
  - alsa
librarypaths:
  - /opt/ffmpeg/lib
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.LogLevel != "debug" || s.Output != "yaml" {
		t.Errorf("settings = %+v", s)
	}
	if !slices.Equal(s.Backends, []string{"v4l2", "alsa"}) {
		t.Errorf("Backends = %v", s.Backends)
	}
	if !slices.Equal(s.LibraryPaths, []string{"/opt/ffmpeg/lib"}) {
		t.Errorf("LibraryPaths = %v", s.LibraryPaths)
	}
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avview.yaml")
	if err := os.WriteFile(path, []byte("output: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("AVVIEW_OUTPUT", "json")
	t.Setenv("AVVIEW_BACKENDS", "pulse alsa")

	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if s.Output != "json" {
		t.Errorf("Output = %q", s.Output)
	}
	if !slices.Equal(s.Backends, []string{"pulse", "alsa"}) {
		t.Errorf("Backends = %v", s.Backends)
	}
}

func TestInvalidOutput(t *testing.T) {
	t.Setenv("AVVIEW_OUTPUT", "xml")
	if _, err := Load(""); err == nil {
		t.Error("expected an error for an unknown output format")
	}
}
