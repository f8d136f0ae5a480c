package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/committee-minutes/internal/config"
	"github.com/jonathan/committee-minutes/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate up|down|version",
	Short:     "Apply or inspect database migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "version"},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (set %s)", config.EnvDatabaseURL)
	}

	out := cmd.OutOrStdout()
	switch args[0] {
	case "up":
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "Migrations applied")
	case "down":
		if err := db.MigrateDown(cfg.DatabaseURL); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "Migrations rolled back")
	case "version":
		version, dirty, err := db.MigrationVersion(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Version %d (dirty: %t)\n", version, dirty)
	}
	return nil
}
