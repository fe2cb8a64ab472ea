package fluidsim

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigEmbeddedDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") failed: %v", err)
	}
	if cfg.Settings.Gravity != 9.8 {
		t.Fatalf("expected default gravity 9.8, got %v", cfg.Settings.Gravity)
	}
	if cfg.InitialConditions.ParticlesX != 80 {
		t.Fatalf("expected default particles_x 80, got %v", cfg.InitialConditions.ParticlesX)
	}
	if cfg.Graphics.StepsPerFrame != 3 {
		t.Fatalf("expected default steps_per_frame 3, got %v", cfg.Graphics.StepsPerFrame)
	}
}

func TestLoadConfigOverlayOnlyTouchesNamedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	overlay := "settings:\n  gravity: 2.0\n"
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatalf("writing overlay file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig(%q) failed: %v", path, err)
	}
	if cfg.Settings.Gravity != 2.0 {
		t.Fatalf("expected overridden gravity 2.0, got %v", cfg.Settings.Gravity)
	}
	if cfg.Settings.SmoothingRadius != 0.60 {
		t.Fatalf("expected untouched smoothing_radius 0.60, got %v", cfg.Settings.SmoothingRadius)
	}
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/path/scenario.yaml"); err == nil {
		t.Fatal("expected error loading nonexistent scenario file")
	}
}

func TestSaveConfigRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	cfg := SimulationConfig{
		Settings:          DefaultSettings(),
		Graphics:          DefaultGraphicsSettings(),
		InitialConditions: DefaultInitialConditions(),
	}
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reloading saved config failed: %v", err)
	}
	if reloaded.Settings.SmoothingRadius != cfg.Settings.SmoothingRadius {
		t.Fatalf("round trip mismatch: got %v, want %v", reloaded.Settings.SmoothingRadius, cfg.Settings.SmoothingRadius)
	}
}
