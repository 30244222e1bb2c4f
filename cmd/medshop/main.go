// Package main is the entry point for the MedShop admin API. The root
// command loads configuration and runs the server; subcommands manage the
// database schema and demo data.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"medshop/internal/config"
)

var (
	configPath string
	envFile    string

	// cfg is loaded once by the root command before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "medshop",
	Short: "MedShop storefront admin API",
	Long: `MedShop serves the storefront admin REST API over PostgreSQL.

Without a subcommand it runs the HTTP server. Configuration is read from
environment variables, an optional .env file and an optional YAML file.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file, skipped when missing")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	c, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cfg = c

	setupLogger(cfg)
	slog.Info("configuration loaded", "env", cfg.Env, "command", cmd.Name())
	return nil
}

// setupLogger installs the default structured logger: text with debug
// output in development, JSON at info level otherwise.
func setupLogger(c *config.Config) {
	var handler slog.Handler
	if c.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}
