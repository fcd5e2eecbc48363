package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "devtrack",
	Short: "Devtrack - daily DSA and backend practice tracker",
	Long: `Devtrack records daily practice sessions per topic, tracks backend skills
and shared resources, and serves dashboards and a public feed over HTTP.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// bootstrap loads configuration and builds the logger shared by every command.
func bootstrap() (*config.Config, *internal.ZapLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, nil
}
