package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"medshop/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or inspect the embedded schema migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE:      runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo users, categories and products into an empty database",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	direction := "up"
	if len(args) == 1 {
		direction = args[0]
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	switch direction {
	case "up":
		err = database.Migrate(db)
	case "down":
		err = database.Rollback(db)
	}
	if err != nil {
		return err
	}

	version, err := database.Version(db)
	if err != nil {
		return err
	}
	slog.Info("schema version", "version", version, "action", direction)
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := database.Seed(db); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
	return nil
}
