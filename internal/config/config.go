package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/gamesearch/internal/validation"
)

// DefaultAPIBase is used when neither the config file nor the environment
// provide a base URL for the search API.
const DefaultAPIBase = "http://localhost:8000"

// PageSizes lists the page sizes the search API accepts.
var PageSizes = []int{10, 25, 50, 100, 200}

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Search  SearchConfig  `mapstructure:"search"`
	UI      UIConfig      `mapstructure:"ui"`
	Keys    KeyConfig     `mapstructure:"keys"`
	Browser BrowserConfig `mapstructure:"browser"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	Retries   int           `mapstructure:"retries"`
}

// SearchConfig holds the defaults of the search controller. Live selects
// debounce-as-you-type; otherwise the query is committed explicitly.
type SearchConfig struct {
	Live     bool          `mapstructure:"live"`
	Debounce time.Duration `mapstructure:"debounce"`
	PageSize int           `mapstructure:"page_size"`
	Sort     string        `mapstructure:"sort"`
	MinStep  int64         `mapstructure:"min_step"`
	MinMax   int64         `mapstructure:"min_max"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type KeyConfig struct {
	Modifier string `mapstructure:"modifier"`
}

type BrowserConfig struct {
	Opener   string `mapstructure:"opener"`
	StoreURL string `mapstructure:"store_url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	logPath := filepath.Join(homeDir, ".gamesearch", "gamesearch.log")

	return &Config{
		API: APIConfig{
			BaseURL:   DefaultAPIBase,
			Timeout:   30 * time.Second,
			UserAgent: "gamesearch/1.0 (https://github.com/pders01/gamesearch)",
			Retries:   2,
		},
		Search: SearchConfig{
			Live:     true,
			Debounce: 350 * time.Millisecond,
			PageSize: 25,
			Sort:     "-current",
			MinStep:  1000,
			MinMax:   200000,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
		},
		Browser: BrowserConfig{
			Opener:   getDefaultOpener(),
			StoreURL: "https://store.steampowered.com/app/",
		},
		Log: LogConfig{
			Level: "off",
			Path:  logPath,
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)
	v.SetDefault("api.retries", cfg.API.Retries)
	v.SetDefault("search.live", cfg.Search.Live)
	v.SetDefault("search.debounce", cfg.Search.Debounce)
	v.SetDefault("search.page_size", cfg.Search.PageSize)
	v.SetDefault("search.sort", cfg.Search.Sort)
	v.SetDefault("search.min_step", cfg.Search.MinStep)
	v.SetDefault("search.min_max", cfg.Search.MinMax)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("browser", cfg.Browser)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.path", cfg.Log.Path)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "gamesearch")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GAMESEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// GAMESEARCH_API_BASE is the documented short form of the base URL setting
	if err := v.BindEnv("api.base_url", "GAMESEARCH_API_BASE", "GAMESEARCH_API_BASE_URL"); err != nil {
		return nil, fmt.Errorf("binding env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if strings.TrimSpace(config.API.BaseURL) == "" {
		config.API.BaseURL = DefaultAPIBase
	}
	config.Log.Path = expandPath(config.Log.Path)

	return &config, nil
}

// Validate reports the first setting that the search controller cannot run with.
func (c *Config) Validate() error {
	base, err := validation.NewAPIBaseValidator().ValidateAndNormalize(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	c.API.BaseURL = base

	if !IsAllowedPageSize(c.Search.PageSize) {
		return fmt.Errorf("search.page_size: %d is not one of %v", c.Search.PageSize, PageSizes)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce: must not be negative")
	}
	if c.API.Retries < 0 {
		return fmt.Errorf("api.retries: must not be negative")
	}
	if c.Search.MinStep <= 0 || c.Search.MinMax < 0 {
		return fmt.Errorf("search.min_step and search.min_max must be positive")
	}
	return nil
}

// IsAllowedPageSize reports whether n is one of PageSizes.
func IsAllowedPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations are written as strings for TOML readability
	apiCfg := map[string]interface{}{
		"base_url":   config.API.BaseURL,
		"timeout":    config.API.Timeout.String(),
		"user_agent": config.API.UserAgent,
		"retries":    config.API.Retries,
	}

	searchCfg := map[string]interface{}{
		"live":      config.Search.Live,
		"debounce":  config.Search.Debounce.String(),
		"page_size": config.Search.PageSize,
		"sort":      config.Search.Sort,
		"min_step":  config.Search.MinStep,
		"min_max":   config.Search.MinMax,
	}

	v.Set("api", apiCfg)
	v.Set("search", searchCfg)
	v.Set("ui", config.UI)
	v.Set("keys", config.Keys)
	v.Set("browser", config.Browser)
	v.Set("log", config.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
