// Package config loads the application configuration file. This is the host
// process configuration (paths, listen address, extra basemaps), distinct
// from the per-project map configuration in pkg/mapconf.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mapdesk/pkg/mapconf"
)

// Config holds the application configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	DB     DBConfig     `yaml:"db"`
	Server ServerConfig `yaml:"server"`
	Map    MapConfig    `yaml:"map"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server LogSettings `yaml:"server"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig holds the local bridge server settings.
type ServerConfig struct {
	// Address to bind the bridge server to. Port 0 picks an ephemeral port;
	// the webview is pointed at whatever the listener reports.
	Address string `yaml:"address"`
}

// MapConfig holds map-related settings.
type MapConfig struct {
	// Basemaps are merged over the built-in registry; matching ids override.
	Basemaps []mapconf.Basemap `yaml:"basemaps"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/mapdesk.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path: "./data/mapdesk.db",
		},
		Server: ServerConfig{
			Address: "127.0.0.1:0",
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		return cfg, nil
	}

	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# mapdesk Configuration
# ---------------------
# map.basemaps entries are merged over the built-in basemap registry.
# Style URLs may contain {key}, replaced with $` + mapconf.StyleKeyEnv + `.

`)
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
