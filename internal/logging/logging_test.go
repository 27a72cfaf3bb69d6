package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"error": slog.LevelError,
		"warn":  slog.LevelWarn,
		"info":  slog.LevelInfo,
		"debug": slog.LevelDebug,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestConfigureDefaultLoggerRejectsUnknownLevel(t *testing.T) {
	restoreDefault(t)
	if _, err := ConfigureDefaultLogger("loud", "", slog.HandlerOptions{}); err == nil {
		t.Error("expected an error")
	}
}

func TestConfigureDefaultLoggerNone(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "ignored.log")
	f, err := ConfigureDefaultLogger("none", path, slog.HandlerOptions{})
	if err != nil || f != nil {
		t.Fatalf("ConfigureDefaultLogger(none) = %v, %v", f, err)
	}
	slog.Error("discarded")
	if _, err := os.Stat(path); err == nil {
		t.Error("log file created for level none")
	}
}

func TestConfigureDefaultLoggerFile(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "avview.log")

	f, err := ConfigureDefaultLogger("warn", path, slog.HandlerOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if f == nil {
		t.Fatal("expected the log file to be returned")
	}

	slog.Info("dropped")
	slog.Warn("kept", "backend", "v4l2")
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("expected exactly one JSON record, got %q: %v", data, err)
	}
	if rec["msg"] != "kept" || rec["backend"] != "v4l2" {
		t.Errorf("record = %v", rec)
	}
}
