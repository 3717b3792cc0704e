package main

import (
	"coursemart/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Run the embedded schema migrations.

Subcommands:
  up      - Apply pending migrations
  down    - Revert migrations`,
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.MigrateUp(a.cfg.Database.ConnectionString(), a.logger)
		},
	})

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revert migrations",
		Long: `Revert applied migrations.

Examples:
  coursemart migrate down --steps 1    # Revert the last migration
  coursemart migrate down              # Revert everything`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.MigrateDown(a.cfg.Database.ConnectionString(), steps, a.logger)
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to revert (0 reverts all)")
	migrateCmd.AddCommand(downCmd)

	return migrateCmd
}
