// Package main is the entry point for the keeper bot
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/coc-keeper/internal/config"
	"github.com/KirkDiggler/coc-keeper/internal/logger"
)

// version is stamped with -ldflags "-X main.version=..."
var version = "dev"

var (
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "keeper",
	Short:         "Call of Cthulhu 7e dice bot and AI Keeper",
	Long:          `keeper rolls checks, keeps investigator sheets and can run an AI Keeper for a chat room.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional file of environment variables")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(rollCmd)
}

// loadConfig reads the environment, applies the global flags and installs
// the logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	cfg.Version = version
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger.Init(cfg.Logger())
	return cfg, nil
}
