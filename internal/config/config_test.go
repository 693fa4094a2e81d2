package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("unexpected default resolution: %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.World.Seed != 12345 {
		t.Errorf("default seed = %d, want 12345", cfg.World.Seed)
	}
	if cfg.World.RenderDistance != 8 {
		t.Errorf("default render distance = %d, want 8", cfg.World.RenderDistance)
	}
	if cfg.World.MaxPendingJobs != 100 {
		t.Errorf("default max pending jobs = %d, want 100", cfg.World.MaxPendingJobs)
	}
	if cfg.World.UploadsPerFrame != 3 {
		t.Errorf("default uploads per frame = %d, want 3", cfg.World.UploadsPerFrame)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte(`
graphics:
  width: 1920
  height: 1080
  fullscreen: true
world:
  seed: 987654
  render_distance: 12
logging:
  level: debug
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("resolution = %dx%d, want 1920x1080", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("fullscreen not applied")
	}
	if cfg.World.Seed != 987654 {
		t.Errorf("seed = %d, want 987654", cfg.World.Seed)
	}
	if cfg.World.RenderDistance != 12 {
		t.Errorf("render distance = %d, want 12", cfg.World.RenderDistance)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}

	// Values absent from the file keep their defaults.
	if !cfg.Graphics.VSync {
		t.Error("vsync default lost during merge")
	}
	if cfg.World.MaxPendingJobs != 100 {
		t.Errorf("max pending jobs = %d, want default 100", cfg.World.MaxPendingJobs)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("graphics: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := Default()
	cfg.World.Seed = 42
	cfg.Graphics.Width = 800

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.World.Seed != 42 {
		t.Errorf("seed = %d, want 42", loaded.World.Seed)
	}
	if loaded.Graphics.Width != 800 {
		t.Errorf("width = %d, want 800", loaded.Graphics.Width)
	}
}
