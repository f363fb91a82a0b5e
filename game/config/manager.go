package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// ServerConfig is one named server configuration loaded from the config
// directory.
type ServerConfig struct {
	Name           string   `json:"name"`
	Host           string   `json:"host"`
	Port           int      `json:"port"`
	AllowedOrigins []string `json:"allowed_origins"`

	// SurfaceRejections emits an explicit room-error event on refused
	// create/join instead of the legacy silent refusal.
	SurfaceRejections bool `json:"surface_rejections"`

	LogColor bool `json:"log_color"`
}

// Default returns the configuration used when no file is present: wide-open
// origins and legacy silent refusals, matching what deployed clients expect.
func Default() *ServerConfig {
	return &ServerConfig{
		Name:     "default",
		Host:     "localhost",
		Port:     8080,
		LogColor: true,
	}
}

// Validate checks a loaded configuration.
func Validate(cfg *ServerConfig) error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("port %d out of range", cfg.Port)
	}
	for _, origin := range cfg.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return errors.New("allowed_origins contains an empty entry")
		}
	}
	return nil
}

// Manager loads and caches server configurations from a directory of JSON
// files. A missing directory is not an error; Load then only resolves the
// built-in default.
type Manager struct {
	configDir string
	configs   map[string]*ServerConfig
	mu        sync.RWMutex
}

// NewManager creates a configuration manager over configDir.
func NewManager(configDir string) *Manager {
	return &Manager{
		configDir: configDir,
		configs:   make(map[string]*ServerConfig),
	}
}

// Load loads a configuration by name. The name "default" (or "") resolves to
// the built-in default when no file overrides it.
func (m *Manager) Load(name string) (*ServerConfig, error) {
	if name == "" {
		name = "default"
	}

	m.mu.RLock()
	if cfg, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return cfg, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if cfg, exists := m.configs[name]; exists {
		return cfg, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.configDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			if name == "default" {
				cfg := Default()
				m.configs[name] = cfg
				return cfg, nil
			}
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Name == "" {
		cfg.Name = name
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[name] = cfg
	return cfg, nil
}

// List returns the names of every configuration file in the directory.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return names, nil
}

// Save writes a configuration to the directory and caches it.
func (m *Manager) Save(name string, cfg *ServerConfig) error {
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := os.MkdirAll(m.configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(m.configDir, filename), data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[strings.TrimSuffix(filename, ".json")] = cfg
	m.mu.Unlock()

	return nil
}
