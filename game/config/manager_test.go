package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Host != "localhost" {
		t.Errorf("Expected localhost, got %q", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if cfg.SurfaceRejections {
		t.Error("Rejections must be silent by default")
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("Expected wide-open origins by default, got %v", cfg.AllowedOrigins)
	}
}

func TestLoad_MissingDirFallsBackToDefault(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "does-not-exist"))

	cfg, err := manager.Load("default")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected default port, got %d", cfg.Port)
	}

	if _, err := manager.Load("strict"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound for named config, got %v", err)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`{
		"name": "strict",
		"port": 9090,
		"allowed_origins": ["https://game.example.com"],
		"surface_rejections": true
	}`)
	if err := os.WriteFile(filepath.Join(dir, "strict.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	manager := NewManager(dir)
	cfg, err := manager.Load("strict")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}
	if !cfg.SurfaceRejections {
		t.Error("Expected surface_rejections true")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://game.example.com" {
		t.Errorf("Unexpected origins: %v", cfg.AllowedOrigins)
	}
	// Unset fields keep their defaults
	if cfg.Host != "localhost" {
		t.Errorf("Expected default host, got %q", cfg.Host)
	}
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"port": 99999}`), 0o644); err != nil {
		t.Fatal(err)
	}

	manager := NewManager(dir)
	if _, err := manager.Load("bad"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_Caches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.json")
	if err := os.WriteFile(path, []byte(`{"port": 7000}`), 0o644); err != nil {
		t.Fatal(err)
	}

	manager := NewManager(dir)
	first, err := manager.Load("relay")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	// Mutating the file must not affect the cached config
	if err := os.WriteFile(path, []byte(`{"port": 7001}`), 0o644); err != nil {
		t.Fatal(err)
	}

	second, err := manager.Load("relay")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if first != second {
		t.Error("Expected the cached config instance")
	}
	if second.Port != 7000 {
		t.Errorf("Expected cached port 7000, got %d", second.Port)
	}
}

func TestSaveAndList(t *testing.T) {
	dir := t.TempDir()
	manager := NewManager(dir)

	cfg := Default()
	cfg.Name = "tourney"
	cfg.Port = 8100
	if err := manager.Save("tourney", cfg); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	names, err := manager.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(names) != 1 || names[0] != "tourney" {
		t.Errorf("Expected [tourney], got %v", names)
	}

	loaded, err := NewManager(dir).Load("tourney")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Port != 8100 {
		t.Errorf("Expected port 8100, got %d", loaded.Port)
	}
}

func TestSave_InvalidConfigRejected(t *testing.T) {
	manager := NewManager(t.TempDir())

	cfg := Default()
	cfg.Port = -1
	if err := manager.Save("bad", cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
