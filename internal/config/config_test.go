package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}

	opener := getDefaultOpener()

	if expectedOpener, ok := expected[runtime.GOOS]; ok {
		if opener != expectedOpener {
			t.Errorf("getDefaultOpener() = %s, want %s for %s", opener, expectedOpener, runtime.GOOS)
		}
	} else if opener != "open" {
		t.Errorf("getDefaultOpener() = %s, want 'open' for unknown OS", opener)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.API.BaseURL != DefaultAPIBase {
		t.Errorf("API.BaseURL = %s, want %s", cfg.API.BaseURL, DefaultAPIBase)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API.Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.API.UserAgent == "" {
		t.Error("API.UserAgent should not be empty")
	}

	if cfg.Search.Debounce != 350*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 350ms", cfg.Search.Debounce)
	}
	if cfg.Search.PageSize != 25 {
		t.Errorf("Search.PageSize = %d, want 25", cfg.Search.PageSize)
	}
	if cfg.Search.Sort != "-current" {
		t.Errorf("Search.Sort = %s, want '-current'", cfg.Search.Sort)
	}
	if !cfg.Search.Live {
		t.Error("Search.Live should default to true")
	}

	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Browser.Opener == "" {
		t.Error("Browser.Opener should not be empty")
	}
	if cfg.Log.Level != "off" {
		t.Errorf("Log.Level = %s, want 'off'", cfg.Log.Level)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GAMESEARCH_API_BASE", "")
	t.Setenv("GAMESEARCH_API_BASE_URL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.API.BaseURL != DefaultAPIBase {
		t.Errorf("API.BaseURL = %s, want %s", cfg.API.BaseURL, DefaultAPIBase)
	}
	if cfg.Search.Debounce != 350*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 350ms", cfg.Search.Debounce)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "test-config.toml")
	configContent := `
[api]
base_url = "https://games.example.com"
timeout = "10s"
user_agent = "test-agent"
retries = 4

[search]
live = false
debounce = "500ms"
page_size = 50
sort = "name"

[ui.colors]
primary = "#FF0000"
`

	if writeErr := os.WriteFile(configPath, []byte(configContent), 0o644); writeErr != nil {
		t.Fatal(writeErr)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://games.example.com" {
		t.Errorf("API.BaseURL = %s, want 'https://games.example.com'", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.API.Retries != 4 {
		t.Errorf("API.Retries = %d, want 4", cfg.API.Retries)
	}
	if cfg.Search.Live {
		t.Error("Search.Live = true, want false")
	}
	if cfg.Search.Debounce != 500*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 500ms", cfg.Search.Debounce)
	}
	if cfg.Search.PageSize != 50 {
		t.Errorf("Search.PageSize = %d, want 50", cfg.Search.PageSize)
	}
	if cfg.Search.MinStep != 1000 {
		t.Errorf("Search.MinStep = %d, want default 1000", cfg.Search.MinStep)
	}
	if cfg.UI.Colors.Primary != "#FF0000" {
		t.Errorf("UI.Colors.Primary = %s, want '#FF0000'", cfg.UI.Colors.Primary)
	}
}

func TestLoad_EnvOverridesBaseURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GAMESEARCH_API_BASE", "https://env.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "https://env.example.com" {
		t.Errorf("API.BaseURL = %s, want env value", cfg.API.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad page size", mutate: func(c *Config) { c.Search.PageSize = 30 }, wantErr: true},
		{name: "negative debounce", mutate: func(c *Config) { c.Search.Debounce = -time.Second }, wantErr: true},
		{name: "bad scheme", mutate: func(c *Config) { c.API.BaseURL = "ftp://example.com" }, wantErr: true},
		{name: "negative retries", mutate: func(c *Config) { c.API.Retries = -1 }, wantErr: true},
		{name: "zero min step", mutate: func(c *Config) { c.Search.MinStep = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := defaultConfig()
	cfg.API.BaseURL = "https://saved.example.com"
	cfg.API.UserAgent = "test-save-agent"
	cfg.Search.Debounce = 200 * time.Millisecond
	cfg.Keys.Modifier = "alt"

	savePath := filepath.Join(tmpDir, "saved-config.toml")
	if saveErr := Save(cfg, savePath); saveErr != nil {
		t.Fatalf("Save() error = %v", saveErr)
	}

	if _, statErr := os.Stat(savePath); os.IsNotExist(statErr) {
		t.Fatal("Save() did not create config file")
	}

	loaded, err := Load(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.API.BaseURL != cfg.API.BaseURL {
		t.Errorf("Loaded API.BaseURL = %s, want %s", loaded.API.BaseURL, cfg.API.BaseURL)
	}
	if loaded.API.UserAgent != cfg.API.UserAgent {
		t.Errorf("Loaded API.UserAgent = %s, want %s", loaded.API.UserAgent, cfg.API.UserAgent)
	}
	if loaded.Search.Debounce != cfg.Search.Debounce {
		t.Errorf("Loaded Search.Debounce = %v, want %v", loaded.Search.Debounce, cfg.Search.Debounce)
	}
	if loaded.Keys.Modifier != cfg.Keys.Modifier {
		t.Errorf("Loaded Keys.Modifier = %s, want %s", loaded.Keys.Modifier, cfg.Keys.Modifier)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "generated.toml")
	if genErr := GenerateDefaultConfig(configPath); genErr != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", genErr)
	}

	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		t.Fatal("GenerateDefaultConfig() did not create file")
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}

	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Generated config has Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Search.PageSize != 25 {
		t.Errorf("Generated config has Search.PageSize = %d, want 25", cfg.Search.PageSize)
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	if cfg == nil {
		t.Fatal("TestConfig() returned nil")
	}
	if cfg.API.UserAgent != "gamesearch-test/1.0" {
		t.Errorf("TestConfig API.UserAgent = %s, want 'gamesearch-test/1.0'", cfg.API.UserAgent)
	}
	if cfg.API.Retries != 0 {
		t.Errorf("TestConfig API.Retries = %d, want 0", cfg.API.Retries)
	}
}
