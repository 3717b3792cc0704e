package main

import (
	"context"
	"fmt"

	"coursemart/internal/config"
	"coursemart/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app is the configuration and logger shared by every command.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "coursemart",
		Short: "Online course marketplace API",
		Long: `coursemart serves the course marketplace HTTP API.

Commands:
  serve          - Run the HTTP server (default)
  migrate up     - Apply pending schema migrations
  migrate down   - Revert schema migrations
  seed           - Insert catalogue courses from seed files
  admin create   - Create an administrator account`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
		newAdminCmd(a),
	)

	return root
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a.cfg = cfg
	a.logger = config.NewLogger(cfg.Logger)

	return nil
}

// openPool connects to the database and applies migrations when auto-migrate is on.
func (a *app) openPool(ctx context.Context) (*pgxpool.Pool, error) {
	if a.cfg.Database.AutoMigrate {
		if err := database.MigrateUp(a.cfg.Database.ConnectionString(), a.logger); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	pool, err := database.NewPool(ctx, a.cfg.Database, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return pool, nil
}
