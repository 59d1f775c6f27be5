package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://127.0.0.1:0",
			Timeout:   5 * time.Second,
			UserAgent: "gamesearch-test/1.0",
			Retries:   0,
		},
		Search: SearchConfig{
			Live:     true,
			Debounce: 5 * time.Millisecond,
			PageSize: 25,
			Sort:     "-current",
			MinStep:  1000,
			MinMax:   200000,
		},
		UI:      defaultConfig().UI,
		Keys:    defaultConfig().Keys,
		Browser: defaultConfig().Browser,
		Log:     LogConfig{Level: "off"},
	}
}
