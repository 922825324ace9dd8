package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Listen != "127.0.0.1:8080" {
		t.Errorf("expected listen 127.0.0.1:8080, got %s", cfg.Server.Listen)
	}
	if cfg.Data.AssetsDir != "assets" {
		t.Errorf("expected assets dir 'assets', got %s", cfg.Data.AssetsDir)
	}

	// Cloth defaults drive the simulator.
	if cfg.Cloth.Steps != 28 {
		t.Errorf("expected 28 steps, got %d", cfg.Cloth.Steps)
	}
	if cfg.Cloth.Damping != 0.92 {
		t.Errorf("expected damping 0.92, got %f", cfg.Cloth.Damping)
	}
	if cfg.Cloth.Stiffness != 14.0 {
		t.Errorf("expected stiffness 14, got %f", cfg.Cloth.Stiffness)
	}
	want := 1.0 / 30.0
	if cfg.Cloth.TimeStep != want {
		t.Errorf("expected time step %f, got %f", want, cfg.Cloth.TimeStep)
	}

	if cfg.Models.CacheSize != 32 {
		t.Errorf("expected cache size 32, got %d", cfg.Models.CacheSize)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yaml")

	content := `
server:
  listen: "0.0.0.0:9000"
cloth:
  steps: 40
  stiffness: 20.0
models:
  cache_size: 8
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}

	if cfg.Server.Listen != "0.0.0.0:9000" {
		t.Errorf("expected listen 0.0.0.0:9000, got %s", cfg.Server.Listen)
	}
	if cfg.Cloth.Steps != 40 {
		t.Errorf("expected 40 steps, got %d", cfg.Cloth.Steps)
	}
	if cfg.Cloth.Stiffness != 20.0 {
		t.Errorf("expected stiffness 20, got %f", cfg.Cloth.Stiffness)
	}
	// Values not in the file keep their defaults.
	if cfg.Cloth.Damping != 0.92 {
		t.Errorf("expected default damping 0.92, got %f", cfg.Cloth.Damping)
	}
	if cfg.Models.CacheSize != 8 {
		t.Errorf("expected cache size 8, got %d", cfg.Models.CacheSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEnsureDirs(t *testing.T) {
	tempDir := t.TempDir()
	cfg := Default()
	cfg.Data.AssetsDir = filepath.Join(tempDir, "assets")
	cfg.Data.DataDir = filepath.Join(tempDir, "data")

	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}

	for _, dir := range []string{cfg.Data.AssetsDir, cfg.InputDir(), cfg.ResultDir(), cfg.LogDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("expected %s to exist: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("expected %s to be a directory", dir)
		}
	}
}
