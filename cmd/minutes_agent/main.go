// Package main provides the entry point for the committee minutes CLI and HTTP API server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/committee-minutes/internal/config"
	"github.com/jonathan/committee-minutes/internal/logger"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "minutes_agent",
	Short: "Committee minutes parser and meeting API",
	Long: "minutes_agent reads committee minutes (procès-verbaux) written in Word, " +
		"extracts agenda items, resolutions, comments and attendance, and merges them into stored meetings.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed output")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads --config when given, then applies defaults and
// environment overrides.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// newLogger builds the command logger. Verbose mode lowers the level to debug.
func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Logging.Level
	if cfg.Verbose {
		level = "debug"
	}
	return logger.New("minutes_agent", level, cfg.Logging.Format)
}
