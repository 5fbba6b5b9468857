package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "mapdesk.yaml")

	tests := []struct {
		name      string
		setup     func()
		validate  func(*testing.T, *Config)
		checkFile func(*testing.T)
	}{
		{
			name:  "NewFile_Defaults",
			setup: func() {}, // No file
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Server.Address != "127.0.0.1:0" {
					t.Errorf("expected default address '127.0.0.1:0', got '%s'", cfg.Server.Address)
				}
				if cfg.DB.Path != "./data/mapdesk.db" {
					t.Errorf("expected default db path, got '%s'", cfg.DB.Path)
				}
			},
			checkFile: func(t *testing.T) {
				content, err := os.ReadFile(configPath)
				if err != nil {
					t.Fatalf("failed to read config file: %v", err)
				}
				if !strings.Contains(string(content), "address: 127.0.0.1:0") {
					t.Error("config file missing default address")
				}
				if !strings.Contains(string(content), "# mapdesk Configuration") {
					t.Error("config file missing header comment")
				}
			},
		},
		{
			name: "ExistingFile_Override",
			setup: func() {
				data := "server:\n  address: 127.0.0.1:8123\nmap:\n  basemaps:\n    - id: company\n      label: Company Tiles\n      style_url: https://tiles.example.com/style.json\n"
				if err := os.WriteFile(configPath, []byte(data), 0o644); err != nil {
					t.Fatalf("failed to setup test file: %v", err)
				}
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Server.Address != "127.0.0.1:8123" {
					t.Errorf("expected overridden address, got '%s'", cfg.Server.Address)
				}
				// Fields absent from the file keep their defaults.
				if cfg.Log.Server.Level != "INFO" {
					t.Errorf("expected default log level INFO, got '%s'", cfg.Log.Server.Level)
				}
				if len(cfg.Map.Basemaps) != 1 || cfg.Map.Basemaps[0].ID != "company" {
					t.Errorf("expected one custom basemap, got %+v", cfg.Map.Basemaps)
				}
			},
			checkFile: func(t *testing.T) {
				// Loading an existing file must not rewrite it.
				content, _ := os.ReadFile(configPath)
				if strings.Contains(string(content), "# mapdesk Configuration") {
					t.Error("existing config file was rewritten on load")
				}
			},
		},
		{
			name: "ExistingFile_Invalid",
			setup: func() {
				if err := os.WriteFile(configPath, []byte("server: [not a mapping"), 0o644); err != nil {
					t.Fatalf("failed to setup test file: %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Remove(configPath)
			tt.setup()

			cfg, err := Load(configPath)
			if tt.validate == nil {
				if err == nil {
					t.Fatal("expected error for invalid config file")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			tt.validate(t, cfg)
			if tt.checkFile != nil {
				tt.checkFile(t)
			}
		})
	}
}
