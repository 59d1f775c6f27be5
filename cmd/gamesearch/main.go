package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/gamesearch/internal/api"
	"github.com/pders01/gamesearch/internal/config"
	"github.com/pders01/gamesearch/internal/debuglog"
	"github.com/pders01/gamesearch/internal/tui"
	"github.com/pders01/gamesearch/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	apiBase    string
	logLevel   string
	live       bool
	explicit   bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:          "gamesearch",
	Short:        "Search game player telemetry from the terminal",
	SilenceUsage: true,
	RunE:         runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gamesearch %s\n", Version)
		fmt.Println("Game telemetry search")
		fmt.Println("github.com/pders01/gamesearch")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration",
	Run: func(cmd *cobra.Command, args []string) {
		target := configPath
		if target == "" {
			home, _ := os.UserHomeDir()
			target = filepath.Join(home, ".config", "gamesearch", "config.toml")
		}

		configFile, err := validation.NewFilePathValidator().ValidateFile(target)
		if err != nil {
			log.Fatalf("Invalid config path: %v", err)
		}
		if err := config.GenerateDefaultConfig(configFile); err != nil {
			log.Fatalf("Failed to generate config: %v", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the search API is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, cfg.API.Timeout)
		defer cancel()

		client := api.NewClient(cfg.API)
		if err := client.Health(ctx); err != nil {
			return fmt.Errorf("%s: %w", client.BaseURL(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s ok\n", client.BaseURL())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&apiBase, "api-base", "", "Base URL of the search API (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off")

	rootCmd.Flags().BoolVar(&live, "live", false, "Search as you type")
	rootCmd.Flags().BoolVar(&explicit, "explicit", false, "Search only when Enter is pressed")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Skip startup banner")
	rootCmd.MarkFlagsMutuallyExclusive("live", "explicit")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd, healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if apiBase != "" {
		cfg.API.BaseURL = apiBase
	}
	switch {
	case live:
		cfg.Search.Live = true
	case explicit:
		cfg.Search.Live = false
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) error {
	level := debuglog.ParseLogLevel(cfg.Log.Level)
	if level == debuglog.LevelOff {
		return debuglog.Setup(debuglog.LevelOff)
	}

	path := cfg.Log.Path
	if path == "" {
		path = debuglog.DefaultPath()
	}
	logFile, err := validation.NewFilePathValidator().ValidateFile(path)
	if err != nil {
		return fmt.Errorf("log.path: %w", err)
	}
	return debuglog.Setup(level, logFile)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !quiet {
		tui.ShowBanner(Version)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer debuglog.Close()

	debuglog.WithFields(map[string]interface{}{
		"version": Version,
		"api":     cfg.API.BaseURL,
		"live":    cfg.Search.Live,
	}).Infof("starting")

	app := tui.NewApp(cfg, api.NewClient(cfg.API))
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
