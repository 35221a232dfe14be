package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.DefaultSession = "work"
	cfg.SeedSample = false
	cfg.Timezone = "UTC"
	cfg.Outbox.Buffer = 8
	cfg.Outbox.Transport = "echo"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load() = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("default_session = \"work\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.SeedSample || cfg.Outbox.Buffer != 64 || cfg.Outbox.Transport != "log" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("/nonexistent/config.toml"); err == nil {
		t.Error("Load() expected error for missing file")
	}
	cfg, err := LoadOrDefault("/nonexistent/config.toml")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("LoadOrDefault() = %+v, want defaults", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero buffer", "[outbox]\nbuffer = 0\n"},
		{"unknown transport", "[outbox]\ntransport = \"smtp\"\n"},
		{"bad timezone", "timezone = \"Mars/Olympus\"\n"},
		{"bad toml", "default_session = \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{}
	if loc, err := cfg.Location(); err != nil || loc != time.Local {
		t.Errorf("Location() = %v, %v, want Local", loc, err)
	}
	cfg.Timezone = "UTC"
	if loc, err := cfg.Location(); err != nil || loc.String() != "UTC" {
		t.Errorf("Location() = %v, %v, want UTC", loc, err)
	}
}

func TestSavePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}
