package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Particles.Count != 15000 {
		t.Errorf("expected 15000 particles, got %d", cfg.Particles.Count)
	}
	if cfg.Derived.MorphDuration != 4*time.Second {
		t.Errorf("expected 4s morph duration, got %v", cfg.Derived.MorphDuration)
	}
	if cfg.Derived.MorphInterval != 8*time.Second {
		t.Errorf("expected 8s morph interval, got %v", cfg.Derived.MorphInterval)
	}
	if cfg.Derived.Scheme.Name != "fire" {
		t.Errorf("expected fire scheme, got %q", cfg.Derived.Scheme.Name)
	}
	if len(cfg.Shapes) != 6 {
		t.Errorf("expected 6 shapes, got %d", len(cfg.Shapes))
	}
	if len(cfg.Lights.Directional) != 2 {
		t.Errorf("expected 2 directional lights, got %d", len(cfg.Lights.Directional))
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := []byte("particles:\n  count: 100\ncolor_scheme: neon\nshapes: [sphere, cube]\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading overlay: %v", err)
	}
	if cfg.Particles.Count != 100 {
		t.Errorf("expected overlay count 100, got %d", cfg.Particles.Count)
	}
	// Untouched fields keep their defaults
	if cfg.Particles.ShapeSize != 14 {
		t.Errorf("expected default shape size 14, got %g", cfg.Particles.ShapeSize)
	}
	if cfg.Derived.Scheme.StartHue != 300 {
		t.Errorf("expected neon start hue 300, got %g", cfg.Derived.Scheme.StartHue)
	}
}

func TestValidateRejectsDegenerateGeometry(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero count", func(c *Config) { c.Particles.Count = 0 }},
		{"negative count", func(c *Config) { c.Particles.Count = -5 }},
		{"zero size", func(c *Config) { c.Particles.ShapeSize = 0 }},
		{"negative size", func(c *Config) { c.Particles.ShapeSize = -1 }},
		{"zero duration", func(c *Config) { c.Morph.DurationMS = 0 }},
		{"unknown scheme", func(c *Config) { c.ColorScheme = "sepia" }},
		{"no shapes", func(c *Config) { c.Shapes = nil }},
		{"unknown shape", func(c *Config) { c.Shapes = []string{"sphere", "dodecahedron"} }},
		{"inverted size range", func(c *Config) { c.Particles.SizeMin, c.Particles.SizeMax = 1, 0.5 }},
		{"zero follow", func(c *Config) { c.IdleFlow.Follow = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(cfg)
			err := cfg.Finalize()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("particles:\n  count: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Defaults()
	cfg.Particles.Count = 321

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading snapshot: %v", err)
	}
	if loaded.Particles.Count != 321 {
		t.Errorf("expected 321 particles after reload, got %d", loaded.Particles.Count)
	}
}
