package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg != Default() {
		t.Error("expected defaults for missing file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Detection.ScoreThreshold = 0.6
	cfg.Control.ScrollHandPreference = "right"
	cfg.SmartPalm.PeriodicCheckInterval = 15

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded != cfg {
		t.Errorf("round trip mismatch:\nsaved  %+v\nloaded %+v", cfg, loaded)
	}
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"detection": {"score_threshold": 1.5}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error for score_threshold > 1")
	}
}

func TestValidateRejectsBadHandPreference(t *testing.T) {
	cfg := Default()
	cfg.Control.ScrollHandPreference = "both"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown hand preference")
	}
}
